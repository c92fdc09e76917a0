package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ctaPrefix opens the call-to-action syntax [!button|Label](URL).
var ctaPrefix = []byte("[!button|")

// kindCTA is the node kind of call-to-action links.
var kindCTA = ast.NewNodeKind("CallToAction")

// ctaNode is a call-to-action link.
type ctaNode struct {
	ast.BaseInline
	label []byte
	url   []byte
}

func (n *ctaNode) Kind() ast.NodeKind { return kindCTA }

func (n *ctaNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label": string(n.label),
		"URL":   string(n.url),
	}, nil)
}

type ctaParser struct{}

func (ctaParser) Trigger() []byte { return []byte{'['} }

// Parse reads [!button|Label](URL) from the current line. Anything else is
// left to the regular link parser.
func (ctaParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, ctaPrefix) {
		return nil
	}

	rest := line[len(ctaPrefix):]
	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd < 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}

	target := rest[labelEnd+2:]
	urlEnd := bytes.IndexByte(target, ')')
	if urlEnd < 0 {
		return nil
	}

	block.Advance(len(ctaPrefix) + labelEnd + 2 + urlEnd + 1)
	return &ctaNode{label: rest[:labelEnd], url: target[:urlEnd]}
}

// ctaStyle is inlined since most email clients drop <style> blocks.
// It matches the buttons of the bundled mailgun-transactional templates.
const ctaStyle = "font-family: 'Helvetica Neue',Helvetica,Arial,sans-serif; box-sizing: border-box; " +
	"font-size: 14px; color: #FFF; text-decoration: none; line-height: 2em; font-weight: bold; " +
	"text-align: center; cursor: pointer; display: inline-block; border-radius: 5px; " +
	"text-transform: capitalize; background-color: #348eda; margin: 0; border-color: #348eda; " +
	"border-style: solid; border-width: 10px 20px;"

type ctaRenderer struct{}

func (r ctaRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindCTA, r.render)
}

func (ctaRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ctaNode)

	href := []byte("#")
	if !html.IsDangerousURL(n.url) {
		href = util.URLEscape(n.url, true)
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(href))
	_, _ = w.WriteString(`" class="btn-primary" itemprop="url" style="` + ctaStyle + `">`)
	_, _ = w.Write(util.EscapeHTML(n.label))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

type buttonExtension struct{}

func (buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(ctaParser{}, 50)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(ctaRenderer{}, 50)))
}

// NewButtonExtension returns a goldmark extension rendering
// [!button|Label](URL) as an inline-styled call-to-action link.
// Dangerous URLs such as javascript: are replaced by "#".
func NewButtonExtension() goldmark.Extender {
	return buttonExtension{}
}
