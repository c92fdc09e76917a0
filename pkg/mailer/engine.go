package mailer

import "context"

// Engine is the capability every delivery mechanism implements.
// It accepts a fully rendered Email and performs the actual transmission.
type Engine interface {
	// Send delivers an email message in a single attempt.
	// Failures are reported as *DeliveryError (matching ErrDeliveryNotMade),
	// except for message construction errors such as ErrNoRecipient or ErrNoContent.
	Send(ctx context.Context, email *Email) error
}

// EngineFunc adapts an ordinary function to the Engine interface.
type EngineFunc func(ctx context.Context, email *Email) error

// Send calls f(ctx, email).
func (f EngineFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
