package mailgun

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/templatemail/pkg/mailer"
)

// apiUser is the fixed basic auth user of the Mailgun API.
const apiUser = "api"

// Engine implements mailer.Engine using the Mailgun messages API.
// It is safe for concurrent use.
type Engine struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used for API calls.
// Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New creates a Mailgun engine.
// Returns an error if APIKey or Domain is empty.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Domain == "" {
		return nil, ErrMissingDomain
	}

	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Engine{
		httpClient: o.httpClient,
		endpoint:   fmt.Sprintf("%s/v3/%s/messages", strings.TrimSuffix(baseURL, "/"), url.PathEscape(cfg.Domain)),
		apiKey:     cfg.APIKey,
	}, nil
}

// Send posts the email to Mailgun in a single attempt.
// A response outside 2xx is returned as *mailer.DeliveryError with the
// status code and body.
func (e *Engine) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}
	if !email.HasBody() {
		return mailer.ErrNoContent
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, strings.NewReader(formValues(email).Encode()))
	if err != nil {
		return &mailer.DeliveryError{Details: "failed to build mailgun request", Err: err}
	}
	req.SetBasicAuth(apiUser, e.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &mailer.DeliveryError{Details: "mailgun request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	// Keep the body readable for callers inspecting the raw response
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &mailer.DeliveryError{
		Details:    "mailgun rejected message",
		StatusCode: resp.StatusCode,
		Body:       body,
		Response:   resp,
		Err:        err,
	}
}

// formValues encodes the message the way the messages API expects it.
// Empty bodies are omitted.
func formValues(email *mailer.Email) url.Values {
	form := url.Values{}
	form.Set("from", email.From)
	for _, to := range email.To {
		form.Add("to", to)
	}
	form.Set("subject", email.Subject)
	if text := strings.TrimSpace(email.Text); text != "" {
		form.Set("text", text)
	}
	if html := strings.TrimSpace(email.HTML); html != "" {
		form.Set("html", html)
	}
	return form
}
