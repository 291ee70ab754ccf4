package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abctechblog/blogfront/config"
	"github.com/abctechblog/blogfront/internal/catalog"
	httpx "github.com/abctechblog/blogfront/internal/http"
	"github.com/abctechblog/blogfront/internal/ports"
)

const shutdownTimeout = 10 * time.Second

// ServerConfig contains everything the gateway server needs.
type ServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	// Identity is optional; nil disables "Continue with Google".
	Identity ports.IdentityProvider
	Catalog  *catalog.Catalog
	Logger   *slog.Logger
}

type httpHandlerConfig struct {
	Logger *slog.Logger
	Router httpx.RouterOptions
	HTTP   config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	h := httpx.NewRouter(cfg.Router)

	// Order: Recover -> Logging -> Compression -> Router
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

func newServer(addr string, handler http.Handler) *http.Server {
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// NewHandler builds the full gateway handler for cfg.
func NewHandler(cfg *ServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil || cfg.Services.Registry == nil {
		return nil, errors.New("bootstrap: server config, services and registry are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cat := cfg.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, err
		}
	}

	httpCfg := cfg.Config.HTTP
	return buildHTTPHandler(httpHandlerConfig{
		Logger: logger,
		HTTP:   httpCfg,
		Router: httpx.RouterOptions{
			Workspaces:   cfg.Services.Registry,
			Identity:     cfg.Identity,
			Catalog:      cat,
			CookieDomain: httpCfg.CookieDomain,
			CookieSecure: httpCfg.CookieSecure,
			MaxBodyBytes: httpCfg.MaxBodyBytes,
			Logger:       logger,
		},
	}), nil
}

// RunWithShutdown serves the gateway and sweeps idle workspaces until ctx is
// cancelled or the process receives SIGINT/SIGTERM, then drains in-flight
// requests.
func RunWithShutdown(ctx context.Context, cfg *ServerConfig) error {
	handler, err := NewHandler(cfg)
	if err != nil {
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := newServer(cfg.Config.HTTP.Addr, handler)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cfg.Services.Registry.Run(gctx, cfg.Config.HTTP.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
