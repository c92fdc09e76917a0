package mailer

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"strings"
	"sync"
	texttemplate "text/template"

	"golang.org/x/sync/singleflight"
)

// Wrapper templates, one per rendered part. Each outputs a single block of
// the named template; a block the template does not define renders empty.
const (
	subjectWrapper  = "_render_subject.html"
	textBodyWrapper = "_render_text_body.html"
	htmlBodyWrapper = "_render_html_body.html"
)

// rootTemplate names the otherwise unused root of every parsed set.
const rootTemplate = "templatemail"

// missingKeyError is the text/template message for an absent map key under missingkey=error.
const missingKeyError = "map has no entry for key"

// undefinedTemplateError is the text/template message for a {{template}} call
// naming a template that was never defined.
const undefinedTemplateError = "not defined"

// Renderer renders named templates into a subject, text body and HTML body.
//
// Templates are looked up in the caller-supplied sources first, falling back to
// the bundled templates. Subject and text are rendered with text/template, the
// HTML body with html/template. Referencing a value missing from the data is an error.
type Renderer struct {
	sets    map[string]*templateSet
	sources []fs.FS
	group   singleflight.Group
	mu      sync.RWMutex
	noCache bool
}

// templateSet holds one template and everything it depends on, parsed by both engines.
type templateSet struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// source is a template body ready to be parsed under its lookup name.
type source struct {
	name string
	body string
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	dirs    []string
	sources []fs.FS
	noCache bool
}

// WithTemplateDirs adds template directories, searched in the given order
// before the bundled templates.
func WithTemplateDirs(dirs ...string) RendererOption {
	return func(o *rendererOptions) {
		o.dirs = append(o.dirs, dirs...)
	}
}

// WithTemplateFS adds template filesystems, searched after any directories
// given with WithTemplateDirs and before the bundled templates.
func WithTemplateFS(fsys ...fs.FS) RendererOption {
	return func(o *rendererOptions) {
		o.sources = append(o.sources, fsys...)
	}
}

// WithoutCache disables caching of parsed templates, so edits on disk are
// picked up by the next render.
func WithoutCache() RendererOption {
	return func(o *rendererOptions) {
		o.noCache = true
	}
}

// NewRenderer creates a renderer. Every directory passed with WithTemplateDirs
// must exist, otherwise ErrTemplateDir is returned.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}

	sources := make([]fs.FS, 0, len(o.dirs)+len(o.sources)+1)
	for _, dir := range o.dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateDir, dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s: not a directory", ErrTemplateDir, dir)
		}
		sources = append(sources, os.DirFS(dir))
	}
	sources = append(sources, o.sources...)
	sources = append(sources, DefaultTemplates())

	return &Renderer{
		sources: sources,
		sets:    make(map[string]*templateSet),
		noCache: o.noCache,
	}, nil
}

// Render renders the subject, text body and HTML body of the named template.
// Each part is trimmed of surrounding whitespace.
func (r *Renderer) Render(name string, data Data) (*Rendered, error) {
	set, err := r.templateSet(name)
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = Data{}
	}

	subject, err := executeText(set.text, subjectWrapper, name, data)
	if err != nil {
		return nil, err
	}

	text, err := executeText(set.text, textBodyWrapper, name, data)
	if err != nil {
		return nil, err
	}

	var htmlBody bytes.Buffer
	if err := set.html.ExecuteTemplate(&htmlBody, htmlBodyWrapper, data); err != nil {
		return nil, execError(name, err)
	}

	return &Rendered{
		Subject: subject,
		Text:    text,
		HTML:    strings.TrimSpace(htmlBody.String()),
	}, nil
}

func executeText(t *texttemplate.Template, wrapper, name string, data Data) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, wrapper, data); err != nil {
		return "", execError(name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// execError maps a template execution failure onto the package errors.
func execError(name string, err error) error {
	var escapeErr *htmltemplate.Error
	switch {
	case strings.Contains(err.Error(), missingKeyError):
		return fmt.Errorf("%w: %s: %v", ErrUndefinedVariable, name, err)
	case strings.Contains(err.Error(), undefinedTemplateError),
		errors.As(err, &escapeErr) && escapeErr.ErrorCode == htmltemplate.ErrNoSuchTemplate:
		return fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	case errors.As(err, &escapeErr):
		return fmt.Errorf("%w: %s: %v", ErrTemplateSyntax, name, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
}

// templateSet returns the parsed set for name, compiling it at most once at a
// time per name.
func (r *Renderer) templateSet(name string) (*templateSet, error) {
	if !r.noCache {
		r.mu.RLock()
		set, ok := r.sets[name]
		r.mu.RUnlock()
		if ok {
			return set, nil
		}
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		set, err := r.compile(name)
		if err != nil {
			return nil, err
		}
		if !r.noCache {
			r.mu.Lock()
			r.sets[name] = set
			r.mu.Unlock()
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*templateSet), nil
}

// compile parses the wrappers, then every layout and include of name, then
// name itself. Later definitions replace earlier blocks of the same name.
func (r *Renderer) compile(name string) (*templateSet, error) {
	var sources []source
	for _, wrapper := range []string{subjectWrapper, textBodyWrapper, htmlBodyWrapper} {
		content, err := r.read(wrapper)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source{name: wrapper, body: string(content)})
	}

	if err := r.collect(name, make(map[string]bool), make(map[string]bool), &sources); err != nil {
		return nil, err
	}

	text := texttemplate.New(rootTemplate).Option("missingkey=error").Funcs(textFuncs())
	html := htmltemplate.New(rootTemplate).Option("missingkey=error").Funcs(htmlFuncs())
	for _, src := range sources {
		if _, err := text.New(src.name).Parse(src.body); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateSyntax, src.name, err)
		}
		if _, err := html.New(src.name).Parse(src.body); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateSyntax, src.name, err)
		}
	}

	return &templateSet{text: text, html: html}, nil
}

// collect appends name and its dependencies to out, dependencies first.
// active tracks the current resolution chain to detect cycles.
func (r *Renderer) collect(name string, active, done map[string]bool, out *[]source) error {
	if done[name] {
		return nil
	}
	if active[name] {
		return fmt.Errorf("%w: %s: circular layout or include", ErrTemplateSyntax, name)
	}
	active[name] = true
	defer delete(active, name)

	content, err := r.read(name)
	if err != nil {
		return err
	}

	tmpl, err := ParseTemplate(content)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTemplateSyntax, name, err)
	}

	for _, dep := range tmpl.Dependencies() {
		if err := r.collect(dep, active, done, out); err != nil {
			return err
		}
	}

	done[name] = true
	*out = append(*out, source{name: name, body: tmpl.Body})
	return nil
}

// read returns the content of the first source containing name.
func (r *Renderer) read(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %s: invalid template name", ErrTemplateNotFound, name)
	}

	for _, fsys := range r.sources {
		content, err := fs.ReadFile(fsys, name)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}
