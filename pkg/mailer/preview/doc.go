// Package preview serves rendered templates over HTTP for local development.
//
//	renderer, _ := mailer.NewRenderer(mailer.WithTemplateDirs("./emails"), mailer.WithoutCache())
//	http.ListenAndServe(":8080", preview.New(renderer))
//
// Then open http://localhost:8080/welcome.html?name=Ann to see the HTML body
// with the text body below it. Use ?part=subject, ?part=text or ?part=html to
// fetch one part as plain text.
//
// Status codes: 404 when the template is missing, 422 when the query lacks a
// value the template uses, 500 for other render failures.
package preview
