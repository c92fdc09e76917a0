package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	TemplateDirs []string `env:"MAILER_TEMPLATE_DIRS" envSeparator:","`
	DryRun       bool     `env:"MAILER_DRY_RUN" envDefault:"false"`
}
