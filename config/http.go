package config

import "time"

// HTTPConfig contains gateway HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for the workspace cookie.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure marks the workspace cookie Secure. Forced on outside dev mode.
	CookieSecure bool `env:"APP_COOKIE_SECURE" envDefault:"true"`

	// WorkspaceIdleTTL is how long an unused workspace is kept in memory.
	WorkspaceIdleTTL time.Duration `env:"WORKSPACE_IDLE_TTL" envDefault:"30m"`

	// SweepInterval is how often idle workspaces are evicted.
	SweepInterval time.Duration `env:"WORKSPACE_SWEEP_INTERVAL" envDefault:"1m"`

	// NoticeTTL is how long a notice stays visible.
	NoticeTTL time.Duration `env:"NOTICE_TTL" envDefault:"5s"`

	// MaxBodyBytes caps request bodies, including image uploads.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"10485760"`

	// CompressionEnabled enables gzip compression for JSON responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.WorkspaceIdleTTL < time.Minute {
		h.WorkspaceIdleTTL = time.Minute
	}
	if h.SweepInterval <= 0 || h.SweepInterval > h.WorkspaceIdleTTL {
		h.SweepInterval = min(time.Minute, h.WorkspaceIdleTTL)
	}
	if h.NoticeTTL <= 0 {
		h.NoticeTTL = 5 * time.Second
	}
	if h.MaxBodyBytes <= 0 {
		h.MaxBodyBytes = 10 << 20
	}

	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
}
