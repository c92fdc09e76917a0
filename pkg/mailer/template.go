package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter keys understood by the renderer.
const (
	metaLayout   = "layout"
	metaIncludes = "includes"
)

// Template represents a template file split into frontmatter and body.
type Template struct {
	Metadata map[string]any
	Layout   string   // Base template parsed before this one
	Body     string   // Go template source
	Includes []string // Partials parsed before this one
}

// Dependencies returns the templates that must be parsed before this one,
// in parse order.
func (t *Template) Dependencies() []string {
	deps := make([]string, 0, len(t.Includes)+1)
	if t.Layout != "" {
		deps = append(deps, t.Layout)
	}
	return append(deps, t.Includes...)
}

// ParseTemplate splits template file content into YAML frontmatter and body.
// Content without a leading "---" line has no frontmatter.
func ParseTemplate(content []byte) (*Template, error) {
	delimiter := []byte("---")

	if !bytes.HasPrefix(content, delimiter) {
		return &Template{
			Metadata: make(map[string]any),
			Body:     string(content),
		}, nil
	}

	afterFirst := bytes.TrimPrefix(content, delimiter)
	afterFirst = bytes.TrimLeft(afterFirst, "\n\r")

	if len(afterFirst) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	endIdx := bytes.Index(afterFirst, delimiter)
	if endIdx == -1 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	frontmatter := afterFirst[:endIdx]
	bodyStart := endIdx + len(delimiter)
	// Drop the line break that closes the frontmatter
	if bodyStart < len(afterFirst) {
		if afterFirst[bodyStart] == '\r' && bodyStart+1 < len(afterFirst) && afterFirst[bodyStart+1] == '\n' {
			bodyStart += 2
		} else if afterFirst[bodyStart] == '\n' {
			bodyStart++
		}
	}

	metadata := make(map[string]any)
	if len(bytes.TrimSpace(frontmatter)) > 0 {
		if err := yaml.Unmarshal(frontmatter, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	tmpl := &Template{
		Metadata: metadata,
		Body:     string(afterFirst[bodyStart:]),
	}

	if v, ok := metadata[metaLayout]; ok {
		layout, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a string", ErrInvalidFrontmatter, metaLayout)
		}
		tmpl.Layout = layout
	}

	if v, ok := metadata[metaIncludes]; ok {
		includes, err := stringList(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFrontmatter, metaIncludes, err)
		}
		tmpl.Includes = includes
	}

	return tmpl, nil
}

// stringList accepts a single string or a YAML sequence of strings.
func stringList(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}
