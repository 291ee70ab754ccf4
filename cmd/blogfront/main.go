package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/abctechblog/blogfront/config"
	"github.com/abctechblog/blogfront/internal/bootstrap"
	"github.com/abctechblog/blogfront/internal/catalog"
)

func main() {
	ctx := context.Background()
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.Log)
	if err := run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	logStartupInfo(ctx, logger, cfg)

	var redisClient redis.UniversalClient
	if cfg.Session.Persist {
		client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisOptions{Redis: cfg.Redis, Logger: logger})
		if err != nil {
			return err
		}
		redisClient = client
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config:      cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics sink failed", "error", cerr)
		}
	}()

	cat, err := catalog.Default()
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(ctx, &bootstrap.ServerConfig{
		Config:   cfg,
		Services: services,
		Identity: bootstrap.BuildIdentityProvider(ctx, bootstrap.IdentityConfig{Auth: cfg.Auth, Logger: logger}),
		Catalog:  cat,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting blogfront",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.API.BaseURL,
		"dev_mode", cfg.IsDev,
		"auth_mode", cfg.Auth.Mode,
		"contact_relay", cfg.Relay.Enabled(),
		"session_persist", cfg.Session.Persist,
		"metrics", cfg.Observability.Metrics.IsEnabled(),
	)
}
