package mailer

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(NewButtonExtension()))

	strictPolicy *bluemonday.Policy
	bodyPolicy   *bluemonday.Policy
	policyOnce   sync.Once
)

func initPolicies() {
	policyOnce.Do(func() {
		// Strips all markup, used for subjects and text bodies
		strictPolicy = bluemonday.StrictPolicy()

		// Keeps inline styling since email clients ignore stylesheets
		bodyPolicy = bluemonday.UGCPolicy()
		bodyPolicy.AllowAttrs("style").Globally()
		bodyPolicy.AllowAttrs("align", "valign", "bgcolor", "width").OnElements("table", "tr", "td")
	})
}

// textFuncs are available to subject and text body templates.
// Every name here must also exist in htmlFuncs since both sets parse the same source.
func textFuncs() texttemplate.FuncMap {
	initPolicies()
	return texttemplate.FuncMap{
		// The markdown source already is the plain text rendition
		"markdown":  func(s string) string { return s },
		"sanitize":  stripTags,
		"striptags": stripTags,
		"lines":     lines,
		"join":      join,
		"trim":      strings.TrimSpace,
	}
}

// htmlFuncs are available to HTML body templates.
func htmlFuncs() htmltemplate.FuncMap {
	initPolicies()
	return htmltemplate.FuncMap{
		"markdown": markdownHTML,
		"sanitize": func(s string) htmltemplate.HTML {
			return htmltemplate.HTML(bodyPolicy.Sanitize(s)) //nolint:gosec // sanitized above
		},
		"striptags": stripTags,
		"lines":     lines,
		"join":      join,
		"trim":      strings.TrimSpace,
	}
}

func markdownHTML(s string) (htmltemplate.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return "", err
	}
	return htmltemplate.HTML(bodyPolicy.Sanitize(buf.String())), nil //nolint:gosec // sanitized above
}

// stripTags removes all markup and returns unescaped text, leaving escaping
// to the template engine.
func stripTags(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// lines splits s on line breaks, dropping a trailing empty line.
func lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// join concatenates a []string or []any with sep.
func join(sep string, items any) string {
	switch v := items.(type) {
	case []string:
		return strings.Join(v, sep)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprint(items)
	}
}
