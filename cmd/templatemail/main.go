// Command templatemail renders email templates, sends them through a
// configured delivery engine and serves a local preview.
//
//	templatemail render -template NAME [-data FILE]
//	templatemail send -from ADDR -to ADDR[,ADDR] -template NAME [-data FILE] [-dry-run]
//	templatemail preview [-addr :8080]
//
// Configuration comes from the environment: MAILER_TEMPLATE_DIRS,
// MAILER_DRY_RUN, MAILER_ENGINE (mailgun, smtp or resend) and the settings of
// the selected engine, LOG_LEVEL, LOG_FORMAT and SENTRY_DSN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/templatemail/pkg/logger"
	"github.com/dmitrymomot/templatemail/pkg/mailer"
)

var errUsage = errors.New("usage: templatemail <render|send|preview> [flags]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Environ(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	envMap := env.ToMap(environ)
	cfg, err := loadConfig(envMap)
	if err != nil {
		return err
	}

	cfg.Logger.Output = stderr
	log := logger.NewWithSentry(cfg.Logger, cfg.Sentry)

	rendererOpts := []mailer.RendererOption{mailer.WithTemplateDirs(cfg.Mailer.TemplateDirs...)}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "render":
		return runRender(rest, rendererOpts, stdout)
	case "send":
		return runSend(ctx, rest, cfg, envMap, rendererOpts, log)
	case "preview":
		return runPreview(ctx, rest, append(rendererOpts, mailer.WithoutCache()), log)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func runRender(args []string, rendererOpts []mailer.RendererOption, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	name := fs.String("template", "", "template name, e.g. mailgun-transactional/action.html")
	dataFile := fs.String("data", "", "YAML file with template values")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("render: -template is required")
	}

	data, err := loadData(*dataFile)
	if err != nil {
		return err
	}

	renderer, err := mailer.NewRenderer(rendererOpts...)
	if err != nil {
		return err
	}

	rendered, err := renderer.Render(*name, data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "Subject: %s\n\n--- text ---\n%s\n\n--- html ---\n%s\n",
		rendered.Subject, rendered.Text, rendered.HTML)
	return err
}

func runSend(
	ctx context.Context,
	args []string,
	cfg config,
	environ map[string]string,
	rendererOpts []mailer.RendererOption,
	log *slog.Logger,
) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	from := fs.String("from", "", "sender address")
	to := fs.String("to", "", "comma separated recipients")
	name := fs.String("template", "", "template name")
	dataFile := fs.String("data", "", "YAML file with template values")
	dryRun := fs.Bool("dry-run", cfg.Mailer.DryRun, "render and log without delivering")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := loadData(*dataFile)
	if err != nil {
		return err
	}

	renderer, err := mailer.NewRenderer(rendererOpts...)
	if err != nil {
		return err
	}

	opts := []mailer.Option{mailer.WithLogger(log), mailer.WithDryRun(*dryRun)}
	if !*dryRun {
		engine, err := newEngine(cfg.Engine, environ)
		if err != nil {
			return err
		}
		if engine != nil {
			opts = append(opts, mailer.WithEngine(engine))
		}
	}

	return mailer.New(renderer, opts...).Send(ctx, mailer.SendParams{
		From:     *from,
		To:       splitList(*to),
		Template: *name,
		Data:     data,
	})
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
