package smtp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSecurity is returned when a security mode name is not recognised.
var ErrInvalidSecurity = errors.New("smtp: invalid security mode")

// ErrMissingHost is returned when no SMTP host is configured.
var ErrMissingHost = errors.New("smtp: missing host")

// Security selects how the SMTP connection is protected.
type Security int

const (
	SecurityNone     Security = iota // Plain connection, no TLS
	SecuritySSL                      // Implicit TLS from connect
	SecurityStartTLS                 // Mandatory STARTTLS upgrade
)

// ParseSecurity parses "none", "ssl" or "starttls", ignoring case.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SecurityNone, nil
	case "ssl":
		return SecuritySSL, nil
	case "starttls":
		return SecurityStartTLS, nil
	default:
		return SecurityNone, fmt.Errorf("%w: %q", ErrInvalidSecurity, s)
	}
}

func (s Security) String() string {
	switch s {
	case SecuritySSL:
		return "ssl"
	case SecurityStartTLS:
		return "starttls"
	default:
		return "none"
	}
}

// UnmarshalText lets caarlos0/env and encoding packages parse Security values.
func (s *Security) UnmarshalText(text []byte) error {
	v, err := ParseSecurity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config holds SMTP server configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string   `env:"SMTP_HOST,required"`
	Username string   `env:"SMTP_USERNAME"`
	Password string   `env:"SMTP_PASSWORD"`
	Port     int      `env:"SMTP_PORT" envDefault:"25"`
	Security Security `env:"SMTP_SECURITY" envDefault:"none"`
}
