package bootstrap

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/solenne/boutique/config"
	"github.com/solenne/boutique/internal/adapters/authroles"
	"github.com/solenne/boutique/internal/adapters/certissuer"
	"github.com/solenne/boutique/internal/adapters/notify"
	"github.com/solenne/boutique/internal/adapters/priceoracle"
	"github.com/solenne/boutique/internal/core"
	"github.com/solenne/boutique/internal/data"
	"github.com/solenne/boutique/internal/gate"
	"github.com/solenne/boutique/internal/observability/metrics"
	"github.com/solenne/boutique/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Messages *service.MessageService
	Quotes   *service.QuoteService

	Gate     *gate.Gate
	Notifier *notify.RedisNotifier

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters, and services for the configured
// deployment. External collaborators (oracle, certificate issuer) stay nil
// when unconfigured; their endpoints degrade rather than fail startup.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gateMetrics := metrics.NewGateMetrics(registry)

	profileRepo := data.NewProfileRepo(deps.DB)
	productRepo := data.NewProductRepo(deps.DB)
	orderRepo := data.NewOrderRepo(deps.DB)
	messageRepo := data.NewMessageRepo(deps.DB)
	cacheRepo := data.NewRedisCacheRepo(deps.RedisClient)

	authSvc, err := BuildAuthService(AuthDeps{
		Config:      cfg,
		RedisClient: deps.RedisClient,
		Profiles:    profileRepo,
		Logger:      logger,
	})
	if err != nil {
		// Misconfigured auth cannot be limped around; every gated request
		// depends on it.
		logger.Error("auth service initialisation failed", "error", err)
	}

	resolver := gate.NewResolver(gate.ResolverOptions{
		Sessions:     authSvc,
		Profiles:     profileRepo,
		Roles:        authroles.ProfileRoleMapper{},
		CookieDomain: cfg.HTTP.CookieDomain,
		Logger:       logger,
		Metrics:      gateMetrics,
	})
	requestGate := gate.FromConfig(cfg.Gate, resolver, gateMetrics)

	notifier := notify.NewRedisNotifier(deps.RedisClient, logger)

	var issuer core.CertificateIssuer
	if cfg.Certificates.IssuerURL != "" {
		client, issuerErr := certissuer.NewClient(certissuer.ClientConfig{
			IssuerURL: cfg.Certificates.IssuerURL,
			Timeout:   cfg.Certificates.Timeout,
		})
		if issuerErr != nil {
			logger.Error("certificate issuer initialisation failed", "error", issuerErr)
		} else {
			issuer = client
		}
	}

	var quotes *service.QuoteService
	if cfg.Oracle.URL != "" {
		oracle, oracleErr := priceoracle.NewClient(priceoracle.ClientConfig{
			URL:       cfg.Oracle.URL,
			QuotePath: cfg.Oracle.QuotePath,
			Timeout:   cfg.Oracle.Timeout,
		})
		if oracleErr != nil {
			logger.Error("price oracle initialisation failed", "error", oracleErr)
		} else {
			quotes = service.NewQuoteService(service.QuoteServiceOptions{
				Source:   oracle,
				Cache:    cacheRepo,
				CacheTTL: cfg.Oracle.CacheTTL,
				Logger:   logger,
			})
		}
	}

	return ServiceContainer{
		Auth:    authSvc,
		Catalog: service.NewCatalogService(productRepo),
		Orders: service.NewOrderService(service.OrderServiceOptions{
			Orders:       orderRepo,
			Products:     productRepo,
			Certificates: issuer,
			Logger:       logger,
		}),
		Messages: service.NewMessageService(service.MessageServiceOptions{
			Messages: messageRepo,
			Notices:  notifier,
			Logger:   logger,
		}),
		Quotes:         quotes,
		Gate:           requestGate,
		Notifier:       notifier,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}
