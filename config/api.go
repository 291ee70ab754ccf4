package config

import (
	"strings"
	"time"
)

// APIConfig points the client at the blog backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "https://api.abctechblog.dev".
	BaseURL string `env:"BACKEND_URL" envDefault:"http://localhost:3000"`

	// Timeout bounds every backend request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// ErrorMessagePath is a JMESPath expression that extracts the message from error bodies.
	ErrorMessagePath string `env:"API_ERROR_MESSAGE_PATH" envDefault:"message || error"`
}

// Sanitize applies guardrails to backend configuration.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.Timeout > 2*time.Minute {
		c.Timeout = 2 * time.Minute
	}
	c.ErrorMessagePath = strings.TrimSpace(c.ErrorMessagePath)
	if c.ErrorMessagePath == "" {
		c.ErrorMessagePath = "message || error"
	}
}

// RelayConfig configures the Web3Forms contact relay.
type RelayConfig struct {
	Endpoint  string        `env:"WEB3FORMS_ENDPOINT"   envDefault:"https://api.web3forms.com/submit"`
	AccessKey string        `env:"WEB3FORMS_ACCESS_KEY"`
	FromName  string        `env:"WEB3FORMS_FROM_NAME"  envDefault:"ABC Tech Blog"`
	Timeout   time.Duration `env:"WEB3FORMS_TIMEOUT"    envDefault:"10s"`
}

// Sanitize trims relay settings.
func (c *RelayConfig) Sanitize() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.AccessKey = strings.TrimSpace(c.AccessKey)
	c.FromName = strings.TrimSpace(c.FromName)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Enabled reports whether an access key is configured.
func (c *RelayConfig) Enabled() bool {
	return c.AccessKey != ""
}

// MediaConfig controls post images.
type MediaConfig struct {
	// DefaultImageURL is published when a post has no uploaded image. Empty uses the built-in placeholder.
	DefaultImageURL string `env:"POST_DEFAULT_IMAGE_URL"`

	// MaxUploadBytes caps image uploads. Zero disables the check.
	MaxUploadBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
}

// maxUploadCeiling is the largest upload accepted regardless of configuration.
const maxUploadCeiling = 50 << 20

// Sanitize clamps the upload limit.
func (c *MediaConfig) Sanitize() {
	c.DefaultImageURL = strings.TrimSpace(c.DefaultImageURL)
	if c.MaxUploadBytes < 0 {
		c.MaxUploadBytes = 0
	}
	if c.MaxUploadBytes > maxUploadCeiling {
		c.MaxUploadBytes = maxUploadCeiling
	}
}
