package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatemail/pkg/mailer"
	"github.com/dmitrymomot/templatemail/pkg/mailer/mailgun"
	"github.com/dmitrymomot/templatemail/pkg/mailer/resend"
	"github.com/dmitrymomot/templatemail/pkg/mailer/smtp"
)

const actionData = `
subject: Did You Forget Your Password?
meta_name: Confirm Email
leadin: Please confirm your email address by clicking the link below.
explanation: We may need to send you critical information about our service.
action_link: https://localhost:8080/forgot-password/click-me
action_text: Reset your password
signature: "--The Team"
footer: You are getting this message because someone clicked on Forgot Password.
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Render(t *testing.T) {
	t.Parallel()

	dataFile := writeFile(t, "data.yaml", actionData)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(),
		[]string{"render", "-template", "mailgun-transactional/action.html", "-data", dataFile},
		nil, &stdout, &stderr,
	)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "Subject: Did You Forget Your Password?")
	require.Contains(t, stdout.String(), "--- text ---\nPlease confirm your email address")
	require.Contains(t, stdout.String(), `href="https://localhost:8080/forgot-password/click-me"`)
}

func TestRun_RenderFromTemplateDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.html"),
		[]byte(`{{define "subject"}}Hello {{.name}}{{end}}`), 0o600))
	dataFile := writeFile(t, "data.yaml", "name: Ann\n")

	var stdout bytes.Buffer
	err := run(context.Background(),
		[]string{"render", "-template", "hello.html", "-data", dataFile},
		[]string{"MAILER_TEMPLATE_DIRS=" + dir}, &stdout, &bytes.Buffer{},
	)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "Subject: Hello Ann")
}

func TestRun_SendDryRun(t *testing.T) {
	t.Parallel()

	dataFile := writeFile(t, "data.yaml", actionData)

	var stderr bytes.Buffer
	err := run(context.Background(), []string{
		"send",
		"-from", "team@example.com",
		"-to", "alice@example.com, bob@example.com",
		"-template", "mailgun-transactional/action.html",
		"-data", dataFile,
		"-dry-run",
	}, []string{"MAILER_ENGINE=carrier-pigeon"}, &bytes.Buffer{}, &stderr)

	require.NoError(t, err, "dry runs never build the engine")
	require.Contains(t, stderr.String(), "[dry run] sending email")
	require.Contains(t, stderr.String(), "bob@example.com")
	require.Contains(t, stderr.String(), "dispatch_id")
}

func TestRun_SendDryRunFromEnv(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	err := run(context.Background(), []string{
		"send", "-to", "alice@example.com", "-template", "mailgun-transactional/action.html",
	}, []string{"MAILER_DRY_RUN=true"}, &bytes.Buffer{}, &stderr)

	require.ErrorIs(t, err, mailer.ErrUndefinedVariable, "dry runs still render")
}

func TestRun_SendWithoutEngine(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), []string{
		"send", "-to", "alice@example.com", "-template", "nonexistent.html",
	}, nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.ErrorIs(t, err, mailer.ErrDeliveryEngineNotInstalled)
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), nil, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)

	err = run(context.Background(), []string{"deliver"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)

	err = run(context.Background(), []string{"render"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		e, err := newEngine("", nil)
		require.NoError(t, err)
		require.Nil(t, e)
	})

	t.Run("mailgun", func(t *testing.T) {
		t.Parallel()
		e, err := newEngine("mailgun", map[string]string{
			"MAILGUN_API_KEY": "key",
			"MAILGUN_DOMAIN":  "mg.example.com",
		})
		require.NoError(t, err)
		require.IsType(t, &mailgun.Engine{}, e)
	})

	t.Run("mailgun missing key", func(t *testing.T) {
		t.Parallel()
		_, err := newEngine("mailgun", map[string]string{"MAILGUN_DOMAIN": "mg.example.com"})
		require.Error(t, err)
	})

	t.Run("smtp", func(t *testing.T) {
		t.Parallel()
		e, err := newEngine("SMTP", map[string]string{
			"SMTP_HOST":     "smtp.example.com",
			"SMTP_PORT":     "465",
			"SMTP_SECURITY": "ssl",
		})
		require.NoError(t, err)
		require.IsType(t, &smtp.Engine{}, e)
	})

	t.Run("smtp invalid security", func(t *testing.T) {
		t.Parallel()
		_, err := newEngine("smtp", map[string]string{
			"SMTP_HOST":     "smtp.example.com",
			"SMTP_SECURITY": "carrier-pigeon",
		})
		require.Error(t, err)
	})

	t.Run("resend", func(t *testing.T) {
		t.Parallel()
		e, err := newEngine("resend", map[string]string{"RESEND_API_KEY": "re_123"})
		require.NoError(t, err)
		require.IsType(t, &resend.Engine{}, e)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := newEngine("carrier-pigeon", nil)
		require.Error(t, err)
	})
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"a@example.com", "b@example.com"}, splitList(" a@example.com,,b@example.com "))
	require.Nil(t, splitList(""))
}

func TestLoadData(t *testing.T) {
	t.Parallel()

	data, err := loadData(writeFile(t, "data.yaml", "services:\n  - [Consulting, $55]\nuser:\n  name: Ann\n"))
	require.NoError(t, err)
	require.Equal(t, []any{[]any{"Consulting", "$55"}}, data["services"])
	require.Equal(t, map[string]any{"name": "Ann"}, data["user"])

	data, err = loadData("")
	require.NoError(t, err)
	require.Empty(t, data)

	_, err = loadData(writeFile(t, "bad.yaml", "services: [oops"))
	require.Error(t, err)
}
