package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Errorf("unexpected backend url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("unexpected api timeout %v", cfg.API.Timeout)
	}
	if cfg.API.ErrorMessagePath != "message || error" {
		t.Errorf("unexpected message path %q", cfg.API.ErrorMessagePath)
	}
	if cfg.Relay.Endpoint != "https://api.web3forms.com/submit" {
		t.Errorf("unexpected relay endpoint %q", cfg.Relay.Endpoint)
	}
	if cfg.Relay.Enabled() {
		t.Errorf("relay should be disabled without an access key")
	}
	if cfg.Auth.Mode != AuthModeOAuth {
		t.Errorf("unexpected auth mode %q", cfg.Auth.Mode)
	}
	if cfg.Auth.OAuth.Complete() {
		t.Errorf("oauth should be incomplete without client credentials")
	}
	if !cfg.HTTP.CookieSecure {
		t.Errorf("cookies must be secure outside dev mode")
	}
	if cfg.Session.Persist {
		t.Errorf("session persistence should be off by default")
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "MOCK")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://blog.example.com/ui/auth/google/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://accounts.google.com")
	t.Setenv("OAUTH_SCOPE", "openid email")
	t.Setenv("DEV_AUTH_NAME", "Ada")
	t.Setenv("DEV_AUTH_EMAIL", "ada@example.com")
	t.Setenv("DEV_AUTH_DURATION", "1h")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeMock,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://blog.example.com/ui/auth/google/callback",
			Scope:        "openid email",
			DiscoveryURL: "https://accounts.google.com",
		},
		DevAuth: DevAuthConfig{
			Name:     "Ada",
			Email:    "ada@example.com",
			Duration: time.Hour,
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
	if !cfg.Auth.OAuth.Complete() {
		t.Fatalf("expected oauth config to be complete")
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	if err := m.UnmarshalText([]byte("saml")); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
	if err := m.UnmarshalText([]byte(" Disabled ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != AuthModeDisabled {
		t.Fatalf("expected disabled, got %q", m)
	}
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{HTTP: HTTPConfig{CookieSecure: false}}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatalf("expected dev mode from NODE_ENV")
	}
	if cfg.HTTP.CookieSecure {
		t.Errorf("dev mode should keep insecure cookies when configured")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("dev mode should default to text logs, got %q", cfg.Log.Format)
	}
}

func TestAPIConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   APIConfig
		want APIConfig
	}{
		{
			name: "trims trailing slash and applies defaults",
			in:   APIConfig{BaseURL: " https://api.example.com/ "},
			want: APIConfig{BaseURL: "https://api.example.com", Timeout: 15 * time.Second, ErrorMessagePath: "message || error"},
		},
		{
			name: "clamps long timeouts",
			in:   APIConfig{BaseURL: "http://b", Timeout: time.Hour, ErrorMessagePath: "error.detail"},
			want: APIConfig{BaseURL: "http://b", Timeout: 2 * time.Minute, ErrorMessagePath: "error.detail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Sanitize()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestMediaConfig_Sanitize(t *testing.T) {
	cfg := MediaConfig{MaxUploadBytes: -1}
	cfg.Sanitize()
	if cfg.MaxUploadBytes != 0 {
		t.Errorf("expected negative limit to disable the check, got %d", cfg.MaxUploadBytes)
	}

	cfg = MediaConfig{MaxUploadBytes: 1 << 40}
	cfg.Sanitize()
	if cfg.MaxUploadBytes != maxUploadCeiling {
		t.Errorf("expected limit to be clamped, got %d", cfg.MaxUploadBytes)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{
		WorkspaceIdleTTL: time.Second,
		SweepInterval:    time.Hour,
		CompressionLevel: 42,
	}
	cfg.Sanitize()

	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.WorkspaceIdleTTL != time.Minute {
		t.Errorf("expected idle ttl floor of a minute, got %v", cfg.WorkspaceIdleTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("expected sweep interval to be bounded by idle ttl, got %v", cfg.SweepInterval)
	}
	if cfg.CompressionLevel != 9 {
		t.Errorf("expected compression level clamp, got %d", cfg.CompressionLevel)
	}
	if cfg.NoticeTTL != 5*time.Second || cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLogConfig_Sanitize(t *testing.T) {
	cfg := LogConfig{Level: "WARNING", Format: "xml"}
	cfg.Sanitize(false)
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg)
	}
	if cfg.SlogLevel().String() != "WARN" {
		t.Fatalf("unexpected slog level %v", cfg.SlogLevel())
	}

	cfg = LogConfig{Level: "verbose"}
	cfg.Sanitize(true)
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Fatalf("unexpected log config %+v", cfg)
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	cfg := SessionConfig{TTL: time.Second}
	cfg.Sanitize()
	if cfg.TTL != 7*24*time.Hour {
		t.Errorf("expected default ttl, got %v", cfg.TTL)
	}
	if cfg.KeyPrefix != "blogfront:session:" {
		t.Errorf("expected default prefix, got %q", cfg.KeyPrefix)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}
