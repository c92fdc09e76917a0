// Package logger builds log/slog loggers from configuration, with context
// extraction and optional Sentry reporting.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Format: logger.FormatText, Level: slog.LevelDebug})
//
// Config carries env tags for caarlos0/env (LOG_LEVEL, LOG_FORMAT). Output
// defaults to os.Stdout and the format to JSON.
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of the context of each log call:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Returning false skips the attribute for that record. The mailer uses one to
// tag every record of a dispatch, including records made by delivery engines,
// with its dispatch_id.
//
// LogHandlerDecorator applies extractors to any slog.Handler:
//
//	log := slog.New(logger.NewLogHandlerDecorator(handler, extractors...))
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(cfg, logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//	})
//
// Error records create Sentry issues; warnings and errors are stored as Sentry
// logs. Without a DSN, or when Sentry fails to initialize, only the local
// output is used.
//
// NewNope returns a logger that discards everything.
package logger
