package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/templatemail/pkg/logger"
)

// Mailer renders templates and hands the result to a delivery engine.
// It is safe for concurrent use; each Send is independent.
type Mailer struct {
	renderer *Renderer
	engine   Engine
	logger   *slog.Logger
	dryRun   bool
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithEngine sets the delivery engine. Without one, only dry runs succeed.
func WithEngine(engine Engine) Option {
	return func(m *Mailer) {
		m.engine = engine
	}
}

// WithLogger sets the logger used for post-dispatch records.
// Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mailer) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithDryRun forces every Send to render without delivering.
func WithDryRun(dryRun bool) Option {
	return func(m *Mailer) {
		m.dryRun = dryRun
	}
}

// New creates a Mailer rendering with the given renderer.
func New(renderer *Renderer, opts ...Option) *Mailer {
	m := &Mailer{
		renderer: renderer,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = slog.New(logger.NewLogHandlerDecorator(m.logger.Handler(), DispatchIDExtractor()))
	return m
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	Data     Data     // Template values
	From     string   // Sender address
	Template string   // Template name (e.g., "mailgun-transactional/action.html")
	To       []string // Recipients (at least one required)
	DryRun   bool     // Render and log, but skip delivery
}

// Render renders a template without sending it.
func (m *Mailer) Render(name string, data Data) (*Rendered, error) {
	return m.renderer.Render(name, data)
}

// Send renders params.Template and delivers it through the engine.
//
// A dry run renders and logs but never touches the engine, so it succeeds
// without one. A real send without an engine fails with
// ErrDeliveryEngineNotInstalled before anything is rendered. Render and
// delivery errors are returned as-is; only successful calls are logged.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	dryRun := params.DryRun || m.dryRun
	if !dryRun && m.engine == nil {
		return ErrDeliveryEngineNotInstalled
	}
	if len(params.To) == 0 {
		return ErrNoRecipient
	}

	ctx = ContextWithDispatchID(ctx)

	rendered, err := m.renderer.Render(params.Template, params.Data)
	if err != nil {
		return err
	}

	if !dryRun {
		err := m.engine.Send(ctx, &Email{
			From:    params.From,
			To:      params.To,
			Subject: rendered.Subject,
			Text:    rendered.Text,
			HTML:    rendered.HTML,
		})
		if err != nil {
			return err
		}
	}

	msg := "sending email"
	if dryRun {
		msg = "[dry run] sending email"
	}
	m.logger.InfoContext(ctx, msg,
		slog.String("from", params.From),
		slog.Any("to", params.To),
		slog.String("template", params.Template),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

type dispatchIDKey struct{}

// ContextWithDispatchID returns ctx carrying a new dispatch ID, or ctx itself
// when it already carries one.
func ContextWithDispatchID(ctx context.Context) context.Context {
	if _, ok := DispatchID(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, dispatchIDKey{}, uuid.NewString())
}

// DispatchID returns the dispatch ID stored in ctx by Send.
func DispatchID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(dispatchIDKey{}).(string)
	return id, ok && id != ""
}

// DispatchIDExtractor adds the dispatch ID to log records made with a context
// passed through Send, including records made by engines.
func DispatchIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := DispatchID(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("dispatch_id", id), true
	}
}

