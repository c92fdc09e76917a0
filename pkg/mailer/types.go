package mailer

import "fmt"

// Data holds the named values substituted into a template.
// Values may be strings, numbers, slices or nested maps.
type Data = map[string]any

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Rendered is the output of a single render call.
// An empty Text or HTML means the template did not produce that part.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Email represents a fully rendered message ready for an Engine.
type Email struct {
	From    string   // Sender address
	Subject string   // Email subject
	Text    string   // Plain text body, empty if absent
	HTML    string   // HTML body, empty if absent
	To      []string // Recipients (at least one required)
}

// HasBody reports whether at least one of the text or HTML bodies is present.
func (e *Email) HasBody() bool {
	return e.Text != "" || e.HTML != ""
}
