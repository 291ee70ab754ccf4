package bootstrap

import (
	"context"
	"log/slog"

	"github.com/abctechblog/blogfront/config"
	"github.com/abctechblog/blogfront/internal/adapters/devauth"
	"github.com/abctechblog/blogfront/internal/adapters/oidc"
	"github.com/abctechblog/blogfront/internal/ports"
)

// IdentityConfig contains configuration for the "Continue with Google" provider.
type IdentityConfig struct {
	Auth   config.AuthConfig
	Logger *slog.Logger
}

// BuildIdentityProvider creates the identity provider for the configured mode.
// It returns nil when the flow is disabled or the configuration is unusable;
// e-mail sign-in keeps working either way.
//
//nolint:ireturn // callers only need the port.
func BuildIdentityProvider(ctx context.Context, cfg IdentityConfig) ports.IdentityProvider {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevIdentity(ctx, cfg.Auth.DevAuth, logger)
	case config.AuthModeOAuth:
		return buildOAuthIdentity(ctx, cfg.Auth.OAuth, logger)
	default:
		logger.InfoContext(ctx, "identity provider disabled", "mode", cfg.Auth.Mode)
		return nil
	}
}

//nolint:ireturn // callers only need the port.
func buildDevIdentity(ctx context.Context, dev config.DevAuthConfig, logger *slog.Logger) ports.IdentityProvider {
	prov, err := devauth.NewProvider(devauth.Config{
		Name:            dev.Name,
		Email:           dev.Email,
		PhotoURL:        dev.PhotoURL,
		SessionDuration: dev.Duration,
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to create dev identity provider, Google sign-in disabled", "error", err)
		return nil
	}
	logger.WarnContext(ctx, "using the mock identity provider; do not run this in production")
	return prov
}

//nolint:ireturn // callers only need the port.
func buildOAuthIdentity(ctx context.Context, oauth config.OAuthConfig, logger *slog.Logger) ports.IdentityProvider {
	// Only enable when fully configured
	if !oauth.Complete() {
		logger.WarnContext(ctx, "AUTH_MODE=oauth but required config missing; Google sign-in disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
			"redirect_url_empty", oauth.RedirectURL == "",
		)
		return nil
	}

	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to create OIDC provider, Google sign-in disabled", "error", err)
		return nil
	}
	return prov
}
