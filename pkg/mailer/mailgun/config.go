package mailgun

// DefaultBaseURL is the Mailgun US region API endpoint.
const DefaultBaseURL = "https://api.mailgun.net"

// Config holds Mailgun API configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `env:"MAILGUN_API_KEY,required"`
	Domain string `env:"MAILGUN_DOMAIN,required"`
	// BaseURL selects the API region, e.g. https://api.eu.mailgun.net
	BaseURL string `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net"`
}
