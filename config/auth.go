package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents how "Continue with Google" is served.
type AuthMode string

const (
	// AuthModeOAuth uses Google OpenID Connect.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses a configured local identity (for development only).
	AuthModeMock AuthMode = "mock"
	// AuthModeDisabled hides the identity-provider flow; e-mail sign-in still works.
	AuthModeDisabled AuthMode = "disabled"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock", "disabled":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock, disabled)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/ui/auth/google/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL" envDefault:"https://accounts.google.com"`
}

// Complete reports whether every setting needed for the OIDC flow is present.
func (c OAuthConfig) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.DiscoveryURL != "" && c.RedirectURL != ""
}

// DevAuthConfig controls the mock identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Name     string        `env:"NAME"      envDefault:"Dev User"`
	Email    string        `env:"EMAIL"     envDefault:"dev@example.com"`
	PhotoURL string        `env:"PHOTO_URL"`
	Duration time.Duration `env:"DURATION"  envDefault:"8h"`
}

// AuthConfig groups all identity-provider configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims provider settings and applies defaults.
func (c *AuthConfig) Sanitize() {
	if c.Mode == "" {
		c.Mode = AuthModeOAuth
	}
	o := &c.OAuth
	o.ClientID = strings.TrimSpace(o.ClientID)
	o.ClientSecret = strings.TrimSpace(o.ClientSecret)
	o.RedirectURL = strings.TrimSpace(o.RedirectURL)
	o.DiscoveryURL = strings.TrimSpace(o.DiscoveryURL)
	if o.Scope = strings.TrimSpace(o.Scope); o.Scope == "" {
		o.Scope = "openid profile email"
	}

	d := &c.DevAuth
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.PhotoURL = strings.TrimSpace(d.PhotoURL)
	if d.Duration <= 0 {
		d.Duration = 8 * time.Hour
	}
}
