// Package mailer renders email content from named templates and dispatches it
// through a pluggable delivery engine.
//
// # Architecture
//
// The package consists of three main components:
//
//   - Renderer: Produces a subject, plain-text body and HTML body from one template
//   - Engine: Interface that delivery mechanisms implement (see the mailgun, smtp
//     and resend sub-packages)
//   - Mailer: Dispatcher combining Renderer and Engine, with dry-run support
//
// # Usage
//
//	import (
//		"context"
//		"os"
//
//		"github.com/dmitrymomot/templatemail/pkg/logger"
//		"github.com/dmitrymomot/templatemail/pkg/mailer"
//		"github.com/dmitrymomot/templatemail/pkg/mailer/mailgun"
//	)
//
//	func main() {
//		renderer, err := mailer.NewRenderer(mailer.WithTemplateDirs("./emails"))
//		if err != nil {
//			panic(err)
//		}
//
//		engine, err := mailgun.New(mailgun.Config{
//			APIKey: os.Getenv("MAILGUN_API_KEY"),
//			Domain: "mg.example.com",
//		})
//		if err != nil {
//			panic(err)
//		}
//
//		m := mailer.New(renderer,
//			mailer.WithEngine(engine),
//			mailer.WithLogger(logger.New(logger.Config{})),
//		)
//
//		err = m.Send(context.Background(), mailer.SendParams{
//			From:     "team@example.com",
//			To:       []string{"user@example.com"},
//			Template: "mailgun-transactional/action.html",
//			Data: mailer.Data{
//				"subject":     "Confirm your email",
//				"meta_name":   "Confirm Email",
//				"leadin":      "Please confirm your email address.",
//				"explanation": "We need an accurate address to reach you.",
//				"action_link": "https://example.com/confirm/abc",
//				"action_text": "Confirm email",
//				"signature":   "-- The Team",
//				"footer":      "Sent by Example Inc.",
//			},
//		})
//		if err != nil {
//			panic(err)
//		}
//	}
//
// # Templates
//
// A template is one file defining up to three blocks: "subject", "text_body"
// and "html_body". A block that is not defined renders empty.
//
//	{{define "subject"}}Welcome {{.name}}{{end}}
//	{{define "text_body"}}Hello {{.name}}!{{end}}
//	{{define "html_body"}}<p>Hello <b>{{.name}}</b>!</p>{{end}}
//
// The subject and text body are rendered with text/template, the HTML body with
// html/template. Referencing a value missing from the data fails the render
// with ErrUndefinedVariable instead of producing an empty string. Every part is
// trimmed of surrounding whitespace.
//
// Templates are looked up in the directories given with WithTemplateDirs, then
// the filesystems given with WithTemplateFS, then the bundled templates
// (DefaultTemplates). The first match wins, which also lets callers replace
// the bundled "_render_*.html" wrappers.
//
// # Layouts and Includes
//
// An optional YAML frontmatter names templates to parse first:
//
//	---
//	layout: mailgun-transactional/base.html
//	includes:
//	  - partials/signature.html
//	---
//	{{define "content"}}...{{end}}
//
// Definitions in the template replace blocks of the same name in its layout, so a
// layout can provide the "html_body" skeleton with a {{block "content" .}} slot.
//
// # Template Functions
//
//   - markdown: Markdown to HTML in the HTML body (goldmark, with
//     [!button|Label](URL) call-to-action links); the raw source in text parts
//   - sanitize: Safe HTML subset in the HTML body; plain text elsewhere
//   - striptags: Removes all markup
//   - lines: Splits a string on line breaks
//   - join: Joins a list with a separator
//   - trim: Trims surrounding whitespace
//
// # Dry Runs
//
// SendParams.DryRun (or WithDryRun on the Mailer) renders the template and logs
// the dispatch without calling the engine, so template errors still surface even
// when no engine is configured.
//
// # Errors
//
//   - ErrTemplateNotFound: Template, layout or include not found
//   - ErrUndefinedVariable: Template referenced a missing value
//   - ErrTemplateSyntax: Malformed template or frontmatter
//   - ErrRenderFailed: Other template execution failures
//   - ErrDeliveryEngineNotInstalled: Real send without an engine
//   - ErrDeliveryNotMade: Delivery failed; the error is a *DeliveryError
//   - ErrNoRecipient, ErrNoContent, ErrInvalidAddress: Invalid message
package mailer
