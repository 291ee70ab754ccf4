package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/abctechblog/blogfront/config"
	"github.com/abctechblog/blogfront/internal/adapters/blogapi"
	redisadapter "github.com/abctechblog/blogfront/internal/adapters/redis"
	"github.com/abctechblog/blogfront/internal/adapters/web3forms"
	"github.com/abctechblog/blogfront/internal/domain/contact"
	"github.com/abctechblog/blogfront/internal/observability/metrics"
	"github.com/abctechblog/blogfront/internal/observability/statsd"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/service"
)

// ErrRelayDisabled is returned for contact submissions when no relay access key is configured.
var ErrRelayDisabled = errors.New("contact relay is not configured")

// ServiceContainer holds the long-lived application services.
type ServiceContainer struct {
	Registry    *service.Registry
	Relay       ports.ContactRelay
	MetricsSink *statsd.Client
	Metrics     *metrics.FormRecorder
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// Close releases resources held by the container.
func (c *ServiceContainer) Close() error {
	if c == nil || c.MetricsSink == nil {
		return nil
	}
	return c.MetricsSink.Close()
}

// NewServices wires the workspace registry and everything it shares.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("bootstrap: service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sink, err := buildMetricsSink(ctx, cfg.Observability.Metrics, logger)
	if err != nil {
		return nil, err
	}
	recorder := metrics.NewFormRecorder(sink)

	relay, err := buildRelay(cfg.Relay, logger)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	factory := WorkspaceFactory(cfg.API, logger)
	// Fail at startup on a bad backend URL instead of on the first request.
	if _, err = factory("startup-check"); err != nil {
		_ = sink.Close()
		return nil, err
	}

	registry := service.NewRegistry(service.RegistryOptions{
		Factory:   factory,
		Relay:     relay,
		Snapshots: buildSnapshotStore(cfg.Session, deps.RedisClient, logger),
		Config: service.RegistryConfig{
			Workspace: service.WorkspaceConfig{
				Composer: service.ComposerConfig{
					DefaultImageURL: cfg.Media.DefaultImageURL,
					MaxUploadBytes:  cfg.Media.MaxUploadBytes,
				},
				NoticeTTL: cfg.HTTP.NoticeTTL,
			},
			IdleTTL:     cfg.HTTP.WorkspaceIdleTTL,
			SnapshotTTL: cfg.Session.TTL,
		},
		Metrics: recorder,
		Logger:  logger,
	})

	return &ServiceContainer{
		Registry:    registry,
		Relay:       relay,
		MetricsSink: sink,
		Metrics:     recorder,
	}, nil
}

func buildMetricsSink(ctx context.Context, cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	sink, err := statsd.NewClient(ctx, statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init statsd: %w", err)
	}
	if sink.Enabled() {
		logger.Info("form metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return sink, nil
}

// WorkspaceFactory builds a fresh backend client per workspace so each one
// carries its own cookie jar.
func WorkspaceFactory(cfg config.APIConfig, logger *slog.Logger) service.WorkspaceFactory {
	return func(id string) (service.WorkspaceDeps, error) {
		c, err := blogapi.NewClient(blogapi.Config{
			BaseURL:          cfg.BaseURL,
			Timeout:          cfg.Timeout,
			ErrorMessagePath: cfg.ErrorMessagePath,
			Logger:           logger.With("workspace", id),
		})
		if err != nil {
			return service.WorkspaceDeps{}, fmt.Errorf("backend client: %w", err)
		}
		return service.WorkspaceDeps{Auth: c, Media: c, Posts: c, Cookies: c}, nil
	}
}

func buildRelay(cfg config.RelayConfig, logger *slog.Logger) (ports.ContactRelay, error) {
	if !cfg.Enabled() {
		logger.Warn("contact relay disabled; set WEB3FORMS_ACCESS_KEY to deliver messages")
		return disabledRelay{}, nil
	}
	c, err := web3forms.NewClient(web3forms.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		FromName:  cfg.FromName,
		Timeout:   cfg.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("contact relay: %w", err)
	}
	return c, nil
}

// disabledRelay fails every submission so the contact form reports it.
type disabledRelay struct{}

func (disabledRelay) Submit(context.Context, contact.Message) error {
	return ErrRelayDisabled
}

func buildSnapshotStore(cfg config.SessionConfig, client redis.UniversalClient, logger *slog.Logger) ports.SnapshotStore {
	if !cfg.Persist {
		return nil
	}
	if client == nil {
		logger.Warn("session persistence requested without a redis client; sessions stay in memory")
		return nil
	}
	return redisadapter.NewSnapshotStoreWithPrefix(client, cfg.KeyPrefix)
}
