package mailgun

import "errors"

var (
	// ErrMissingAPIKey is returned when the Mailgun API key is not provided.
	ErrMissingAPIKey = errors.New("mailgun: missing api key")

	// ErrMissingDomain is returned when the sending domain is not provided.
	ErrMissingDomain = errors.New("mailgun: missing domain")
)
