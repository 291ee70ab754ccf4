package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Blog backend, contact relay and media configuration
//   - auth.go: "Continue with Google" configuration
//   - http.go: Gateway HTTP server and workspace configuration
//   - redis.go: Session snapshot persistence and its redis connection
//   - observability.go: Logging and metrics
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, insecure cookies allowed).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Blog backend
	API APIConfig

	// Contact relay
	Relay RelayConfig

	// Post images
	Media MediaConfig

	// Identity provider configuration
	Auth AuthConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Session snapshot persistence
	Session SessionConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	// Logging
	Log LogConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	// Check NODE_ENV for dev mode first; later guardrails depend on it.
	c.detectDevMode()

	c.API.Sanitize()
	c.Relay.Sanitize()
	c.Media.Sanitize()
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	if !c.IsDev {
		c.HTTP.CookieSecure = true
	}
	c.Session.Sanitize()
	c.Log.Sanitize(c.IsDev)
	c.Observability.Sanitize()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
