package mailer

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templatesFS embed.FS

// DefaultTemplates returns the bundled templates: the part wrappers and the
// mailgun-transactional set (action, alert and billing emails sharing one layout).
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		// Unreachable: the directory is embedded at build time
		panic(err)
	}
	return sub
}
