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

	"github.com/solenne/boutique/config"
	"github.com/solenne/boutique/internal/adapters/notify"
	httpx "github.com/solenne/boutique/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPServer assembles the full handler chain and server.
// Order: Recover -> Logging -> Gate -> Router.
func BuildHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Catalog:      cfg.Services.Catalog,
		Orders:       cfg.Services.Orders,
		Messages:     cfg.Services.Messages,
		Quotes:       cfg.Services.Quotes,
		Notices:      cfg.Services.Notifier,
		Gate:         cfg.Services.Gate,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Metrics:      cfg.Services.MetricsHandler,
		Logger:       logger,
	})

	handler := httpx.Logging(logger)(router)
	handler = httpx.Recover(logger)(handler)

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// RunServicesWithShutdown starts the enabled services and blocks until a
// termination signal or a service failure, then shuts everything down.
func RunServicesWithShutdown(cfg *HTTPServerConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service configuration is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	var server *http.Server
	if cfg.Config.IsHTTPServerEnabled() {
		server = BuildHTTPServer(cfg)
		group.Go(func() error {
			logger.Info("starting HTTP server", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("shutting down HTTP server")
			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.Config.IsNotifierEnabled() && cfg.Services.Notifier != nil {
		group.Go(func() error {
			return runNotifierWorker(groupCtx, cfg.Services.Notifier, logger)
		})
	}

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("all services stopped")
	return nil
}

// runNotifierWorker tails the notification firehose and writes an audit line
// per delivered notice. Distribution to browsers happens on the websocket
// endpoint; this worker is the operator-facing record of what went out.
func runNotifierWorker(ctx context.Context, notifier *notify.RedisNotifier, logger *slog.Logger) error {
	notices, err := notifier.SubscribeAll(ctx)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "notifier worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case notice, open := <-notices:
			if !open {
				return nil
			}
			logger.InfoContext(ctx, "message notice delivered",
				"thread_id", notice.ThreadID,
				"message_id", notice.MessageID,
				"from_admin", notice.FromAdmin,
			)
		}
	}
}
