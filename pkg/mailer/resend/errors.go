package resend

import "errors"

var (
	// ErrMissingAPIKey is returned when the Resend API key is not provided.
	ErrMissingAPIKey = errors.New("resend: api key is required")

	// ErrInvalidBaseURL is returned when the configured base URL cannot be parsed.
	ErrInvalidBaseURL = errors.New("resend: invalid base url")
)
