package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatemail/pkg/logger"
)

// MockEngine is a mock implementation of the Engine interface.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newTestMailer(t *testing.T, opts ...Option) *Mailer {
	t.Helper()

	renderer, err := NewRenderer(WithTemplateFS(fstest.MapFS{
		"welcome.html": &fstest.MapFile{
			Data: []byte(`{{define "subject"}}Welcome {{.name}}{{end}}` +
				`{{define "text_body"}}Hello {{.name}}!{{end}}` +
				`{{define "html_body"}}<p>Hello <b>{{.name}}</b>!</p>{{end}}`),
		},
	}))
	require.NoError(t, err)

	return New(renderer, opts...)
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	engine := &MockEngine{}
	engine.On("Send", mock.Anything, &Email{
		From:    "team@example.com",
		To:      []string{"alice@example.com", "bob@example.com"},
		Subject: "Welcome Alice",
		Text:    "Hello Alice!",
		HTML:    "<p>Hello <b>Alice</b>!</p>",
	}).Return(nil)

	m := newTestMailer(t, WithEngine(engine))

	err := m.Send(context.Background(), SendParams{
		From:     "team@example.com",
		To:       []string{"alice@example.com", "bob@example.com"},
		Template: "welcome.html",
		Data:     Data{"name": "Alice"},
	})

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestMailer_Send_PassesDispatchIDToEngine(t *testing.T) {
	t.Parallel()

	var ids []string
	engine := EngineFunc(func(ctx context.Context, _ *Email) error {
		id, ok := DispatchID(ctx)
		require.True(t, ok)
		ids = append(ids, id)
		return nil
	})

	m := newTestMailer(t, WithEngine(engine))
	params := SendParams{To: []string{"a@example.com"}, Template: "welcome.html", Data: Data{"name": "A"}}

	require.NoError(t, m.Send(context.Background(), params))
	require.NoError(t, m.Send(context.Background(), params))
	require.Len(t, ids, 2)
	require.NotEqual(t, ids[0], ids[1])

	ctx := ContextWithDispatchID(context.Background())
	preset, _ := DispatchID(ctx)
	require.NoError(t, m.Send(ctx, params))
	require.Equal(t, preset, ids[2])
}

func TestMailer_Send_DryRunWithoutEngine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := newTestMailer(t, WithLogger(logger.New(logger.Config{Output: &buf})))

	err := m.Send(context.Background(), SendParams{
		From:     "team@example.com",
		To:       []string{"alice@example.com"},
		Template: "welcome.html",
		Data:     Data{"name": "Alice"},
		DryRun:   true,
	})
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "[dry run] sending email", record["msg"])
	require.Equal(t, "INFO", record["level"])
	require.Equal(t, "team@example.com", record["from"])
	require.Equal(t, []any{"alice@example.com"}, record["to"])
	require.Equal(t, "welcome.html", record["template"])
	require.Equal(t, true, record["dry_run"])
	require.NotEmpty(t, record["dispatch_id"])
}

func TestMailer_Send_DryRunSkipsEngine(t *testing.T) {
	t.Parallel()

	engine := &MockEngine{}
	m := newTestMailer(t, WithEngine(engine), WithDryRun(true))

	err := m.Send(context.Background(), SendParams{
		To:       []string{"alice@example.com"},
		Template: "welcome.html",
		Data:     Data{"name": "Alice"},
	})

	require.NoError(t, err)
	engine.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_Send_DryRunStillRenders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := newTestMailer(t, WithLogger(logger.New(logger.Config{Output: &buf})))

	err := m.Send(context.Background(), SendParams{
		To:       []string{"alice@example.com"},
		Template: "missing.html",
		DryRun:   true,
	})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	err = m.Send(context.Background(), SendParams{
		To:       []string{"alice@example.com"},
		Template: "welcome.html",
		DryRun:   true,
	})
	require.ErrorIs(t, err, ErrUndefinedVariable)
	require.Empty(t, buf.String(), "failed sends must not be logged")
}

func TestMailer_Send_EngineNotInstalled(t *testing.T) {
	t.Parallel()

	m := newTestMailer(t)

	// Checked before rendering, so a missing template does not matter
	err := m.Send(context.Background(), SendParams{
		To:       []string{"alice@example.com"},
		Template: "missing.html",
	})
	require.ErrorIs(t, err, ErrDeliveryEngineNotInstalled)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	engine := &MockEngine{}
	m := newTestMailer(t, WithEngine(engine))

	err := m.Send(context.Background(), SendParams{
		Template: "welcome.html",
		Data:     Data{"name": "Alice"},
	})

	require.ErrorIs(t, err, ErrNoRecipient)
	engine.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_Send_RenderFailure(t *testing.T) {
	t.Parallel()

	engine := &MockEngine{}
	m := newTestMailer(t, WithEngine(engine))

	err := m.Send(context.Background(), SendParams{
		To:       []string{"alice@example.com"},
		Template: "welcome.html",
		Data:     Data{},
	})

	require.ErrorIs(t, err, ErrUndefinedVariable)
	engine.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_Send_EngineFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	deliveryErr := &DeliveryError{Details: "provider rejected message", StatusCode: http.StatusUnauthorized}

	engine := &MockEngine{}
	engine.On("Send", mock.Anything, mock.Anything).Return(deliveryErr)

	m := newTestMailer(t, WithEngine(engine), WithLogger(logger.New(logger.Config{Output: &buf})))

	err := m.Send(context.Background(), SendParams{
		To:       []string{"alice@example.com"},
		Template: "welcome.html",
		Data:     Data{"name": "Alice"},
	})

	require.ErrorIs(t, err, ErrDeliveryNotMade)
	var target *DeliveryError
	require.ErrorAs(t, err, &target)
	require.Equal(t, http.StatusUnauthorized, target.StatusCode)
	require.Empty(t, buf.String())
	engine.AssertExpectations(t)
}

func TestMailer_Send_LogsRealSend(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := &MockEngine{}
	engine.On("Send", mock.Anything, mock.Anything).Return(nil)

	m := newTestMailer(t,
		WithEngine(engine),
		WithLogger(logger.New(logger.Config{Output: &buf, Format: logger.FormatText})),
	)

	err := m.Send(context.Background(), SendParams{
		From:     "team@example.com",
		To:       []string{"alice@example.com"},
		Template: "welcome.html",
		Data:     Data{"name": "Alice"},
	})

	require.NoError(t, err)
	require.Contains(t, buf.String(), `msg="sending email"`)
	require.Contains(t, buf.String(), "dry_run=false")
	require.NotContains(t, buf.String(), "[dry run]")
}

func TestMailer_Render(t *testing.T) {
	t.Parallel()

	m := newTestMailer(t)

	result, err := m.Render("welcome.html", Data{"name": "Ann"})
	require.NoError(t, err)
	require.Equal(t, "Welcome Ann", result.Subject)
}

func TestDeliveryError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		err     *DeliveryError
		message string
	}{
		{
			name:    "transport failure",
			err:     &DeliveryError{Details: "failed to dial", Err: cause},
			message: "delivery not made: failed to dial: connection refused",
		},
		{
			name:    "rejected response",
			err:     &DeliveryError{Details: "mailgun rejected message", StatusCode: 401, Body: []byte("Forbidden")},
			message: "delivery not made: mailgun rejected message (status 401)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.EqualError(t, tt.err, tt.message)
			require.ErrorIs(t, tt.err, ErrDeliveryNotMade)
			require.Equal(t, tt.err.Err != nil, errors.Is(tt.err, cause))
		})
	}
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Ann <ann@example.com>", Recipient("Ann", "ann@example.com"))
	require.Equal(t, "ann@example.com", Recipient("", "ann@example.com"))
}

func TestEmail_HasBody(t *testing.T) {
	t.Parallel()

	require.False(t, (&Email{}).HasBody())
	require.True(t, (&Email{Text: "t"}).HasBody())
	require.True(t, (&Email{HTML: "<p>h</p>"}).HasBody())
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	t.Parallel()

	m := newTestMailer(t, WithLogger(nil))
	require.NotNil(t, m.logger)
	m.logger.Log(context.Background(), slog.LevelInfo, "discarded")
}
