package main

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/templatemail/pkg/logger"
	"github.com/dmitrymomot/templatemail/pkg/mailer"
	"github.com/dmitrymomot/templatemail/pkg/mailer/mailgun"
	"github.com/dmitrymomot/templatemail/pkg/mailer/resend"
	"github.com/dmitrymomot/templatemail/pkg/mailer/smtp"
)

// Delivery engines selectable with MAILER_ENGINE.
const (
	engineMailgun = "mailgun"
	engineSMTP    = "smtp"
	engineResend  = "resend"
)

type config struct {
	Logger logger.Config
	Sentry logger.SentryConfig
	Mailer mailer.Config
	// Engine is empty when only dry runs are needed.
	Engine string `env:"MAILER_ENGINE"`
}

func loadConfig(environ map[string]string) (config, error) {
	cfg, err := env.ParseAsWithOptions[config](env.Options{Environment: environ})
	if err != nil {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// newEngine parses the configuration of the selected engine only, so the
// required variables of the others need not be set.
func newEngine(kind string, environ map[string]string) (mailer.Engine, error) {
	opts := env.Options{Environment: environ}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "":
		return nil, nil
	case engineMailgun:
		cfg, err := env.ParseAsWithOptions[mailgun.Config](opts)
		if err != nil {
			return nil, fmt.Errorf("parse mailgun config: %w", err)
		}
		return mailgun.New(cfg)
	case engineSMTP:
		cfg, err := env.ParseAsWithOptions[smtp.Config](opts)
		if err != nil {
			return nil, fmt.Errorf("parse smtp config: %w", err)
		}
		return smtp.New(cfg)
	case engineResend:
		cfg, err := env.ParseAsWithOptions[resend.Config](opts)
		if err != nil {
			return nil, fmt.Errorf("parse resend config: %w", err)
		}
		return resend.New(cfg)
	default:
		return nil, fmt.Errorf("unknown delivery engine %q", kind)
	}
}
