package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"` // development, production

	// Site
	SiteBaseURL string `env:"SITE_BASE_URL"`

	// Resend
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	ResendBaseURL string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	MailFrom      string `env:"MAIL_FROM" envDefault:"noreply@dh-japan.com"`
	MailAdminTo   string `env:"MAIL_ADMIN_TO" envDefault:"info@dh-japan.com"`

	// Limits
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"5"`

	// Maintenance
	MaintenanceMode bool `env:"MAINTENANCE_MODE" envDefault:"false"`
}

// Load reads configuration from a .env file (if present), the environment and
// the supplied command line arguments, in that order of precedence.
func Load(args []string) (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment (development, production)")
	fs.BoolVar(&cfg.MaintenanceMode, "maintenance", cfg.MaintenanceMode, "Serve the maintenance page")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be development or production, got %q", c.Env)
	}

	if c.Port == "" {
		return errors.New("PORT is required")
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}

	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}

	if _, err := url.ParseRequestURI(c.ResendBaseURL); err != nil {
		return fmt.Errorf("RESEND_BASE_URL is not a valid URL: %w", err)
	}

	if c.SiteBaseURL != "" {
		if _, err := url.ParseRequestURI(c.SiteBaseURL); err != nil {
			return fmt.Errorf("SITE_BASE_URL is not a valid URL: %w", err)
		}
	}

	// An empty RESEND_API_KEY is allowed: the relay reports the misconfiguration
	// per request instead of refusing to serve the site.
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
