package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/templatemail/pkg/mailer"
)

// Engine implements mailer.Engine using the Resend API.
type Engine struct {
	client *resend.Client
	config Config
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New creates a new Resend engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}

	client := resend.NewCustomClient(o.httpClient, cfg.APIKey)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
		}
		client.BaseURL = base
	}

	return &Engine{client: client, config: cfg}, nil
}

// Send implements mailer.Engine.
// An empty From falls back to the configured sender.
func (e *Engine) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}
	if !email.HasBody() {
		return mailer.ErrNoContent
	}

	from := email.From
	if from == "" {
		from = mailer.Recipient(e.config.SenderName, e.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	if _, err := e.client.Emails.SendWithContext(ctx, req); err != nil {
		return &mailer.DeliveryError{Details: "resend rejected message", Err: err}
	}

	return nil
}
