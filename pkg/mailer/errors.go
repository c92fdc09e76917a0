package mailer

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTemplateNotFound indicates the template, one of its layouts or includes
	// could not be resolved in any template directory.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrUndefinedVariable indicates the template referenced a value missing from the data.
	ErrUndefinedVariable = errors.New("undefined template variable")

	// ErrTemplateSyntax indicates malformed template source or frontmatter.
	ErrTemplateSyntax = errors.New("template syntax error")

	// ErrRenderFailed indicates template execution failed for any other reason.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrTemplateDir indicates a configured template directory is missing or not a directory.
	ErrTemplateDir = errors.New("invalid template directory")

	// ErrDeliveryEngineNotInstalled indicates a real send was requested without an engine.
	ErrDeliveryEngineNotInstalled = errors.New("delivery engine not installed")

	// ErrDeliveryNotMade indicates the engine could not deliver the email.
	ErrDeliveryNotMade = errors.New("delivery not made")

	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoContent indicates neither a text nor an HTML body was provided.
	ErrNoContent = errors.New("email must have a text or HTML body")

	// ErrInvalidAddress indicates a sender or recipient address could not be parsed.
	ErrInvalidAddress = errors.New("invalid email address")
)

// DeliveryError describes a failed delivery attempt.
// It matches ErrDeliveryNotMade with errors.Is and unwraps to the transport cause, if any.
type DeliveryError struct {
	Err        error          // Underlying transport error, nil for rejected responses
	Response   *http.Response // Raw provider response (HTTP engines only)
	Details    string         // Human-readable description
	Body       []byte         // Provider response body (HTTP engines only)
	StatusCode int            // Provider status code (HTTP engines only)
}

func (e *DeliveryError) Error() string {
	msg := ErrDeliveryNotMade.Error() + ": " + e.Details
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeliveryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDeliveryNotMade}
	}
	return []error{ErrDeliveryNotMade, e.Err}
}
