package smtp

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/templatemail/pkg/mailer"
)

// client is the part of *mail.Client the engine uses.
type client interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// clientFactory creates one client per Send.
type clientFactory func(host string, opts ...mail.Option) (client, error)

func newMailClient(host string, opts ...mail.Option) (client, error) {
	return mail.NewClient(host, opts...)
}

// Engine implements mailer.Engine over a direct SMTP session.
// Every Send opens its own connection and closes it before returning.
type Engine struct {
	newClient clientFactory
	host      string
	opts      []mail.Option
}

// New creates an SMTP engine. No connection is made until Send.
func New(cfg Config) (*Engine, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}

	return &Engine{
		newClient: newMailClient,
		host:      cfg.Host,
		opts:      clientOptions(cfg),
	}, nil
}

func clientOptions(cfg Config) []mail.Option {
	port := cfg.Port
	if port == 0 {
		port = 25
	}

	opts := []mail.Option{mail.WithPort(port)}
	switch cfg.Security {
	case SecuritySSL:
		opts = append(opts, mail.WithSSL())
	case SecurityStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if cfg.Username == "" || cfg.Password == "" {
		return opts
	}

	// Without transport security PLAIN has to be allowed over plaintext.
	auth := mail.SMTPAuthPlain
	if cfg.Security == SecurityNone {
		auth = mail.SMTPAuthPlainNoEnc
	}
	return append(opts,
		mail.WithSMTPAuth(auth),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
}

// Send builds the MIME message, then dials, sends and closes one session.
// Message errors are returned before any connection is attempted.
func (e *Engine) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := buildMessage(email)
	if err != nil {
		return err
	}

	c, err := e.newClient(e.host, e.opts...)
	if err != nil {
		return &mailer.DeliveryError{Details: "failed to create smtp client", Err: err}
	}

	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return &mailer.DeliveryError{Details: fmt.Sprintf("smtp delivery to %s failed", e.host), Err: err}
	}

	return nil
}

// buildMessage produces multipart/alternative whenever there is an HTML body
// and a single text/plain part otherwise.
func buildMessage(email *mailer.Email) (*mail.Msg, error) {
	if len(email.To) == 0 {
		return nil, mailer.ErrNoRecipient
	}
	if !email.HasBody() {
		return nil, mailer.ErrNoContent
	}

	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("%w: from %q: %v", mailer.ErrInvalidAddress, email.From, err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("%w: to %v: %v", mailer.ErrInvalidAddress, email.To, err)
	}
	msg.Subject(email.Subject)

	switch {
	case email.Text != "" && email.HTML != "":
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	case email.HTML != "":
		if err := setHTMLAlternative(msg, email.HTML); err != nil {
			return nil, err
		}
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	return msg, nil
}

// setHTMLAlternative sets a multipart/alternative body with html as its only
// child. go-mail writes a lone part without the envelope, so the envelope is
// built here and passed through unencoded.
func setHTMLAlternative(msg *mail.Msg, html string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {string(mail.TypeTextHTML) + "; charset=" + mail.CharsetUTF8.String()},
		"Content-Transfer-Encoding": {mail.EncodingQP.String()},
	})
	if err != nil {
		return fmt.Errorf("failed to create html part: %w", err)
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(html)); err != nil {
		return fmt.Errorf("failed to encode html part: %w", err)
	}
	if err := qp.Close(); err != nil {
		return fmt.Errorf("failed to encode html part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close html alternative: %w", err)
	}

	msg.SetBodyString(
		mail.ContentType("multipart/alternative; boundary="+mw.Boundary()),
		buf.String(),
		mail.WithPartEncoding(mail.NoEncoding),
	)
	return nil
}
