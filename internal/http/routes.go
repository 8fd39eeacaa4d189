package httpx

import (
	"log/slog"
	"net/http"

	"github.com/solenne/boutique/internal/core"
	"github.com/solenne/boutique/internal/gate"
	"github.com/solenne/boutique/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Messages *service.MessageService
	Quotes   *service.QuoteService
	Notices  core.NoticeSubscriber

	// Gate guards every route; requests it redirects never reach the mux.
	Gate *gate.Gate

	CookieDomain string
	// Metrics is the scrape endpoint handler (promhttp); optional.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter creates and configures a new HTTP router wrapped by the request gate.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
		registerAuthRoutes(mux, authHandlers)
	}

	if services.Catalog != nil {
		registerCatalogRoutes(mux, &CatalogHandlers{Svc: services.Catalog})
	}
	if services.Orders != nil {
		registerOrderRoutes(mux, &OrderHandlers{Svc: services.Orders})
	}
	if services.Messages != nil {
		registerMessageRoutes(mux, NewMessageHandlers(services.Messages, services.Notices, services.Logger))
	}
	if services.Quotes != nil {
		quoteHandlers := &QuoteHandlers{Svc: services.Quotes}
		mux.Handle("GET /api/quotes/{symbol}", http.HandlerFunc(quoteHandlers.Get))
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics)
	}

	registerPageRoutes(mux)

	var handler http.Handler = mux
	if services.Gate != nil {
		handler = services.Gate.Middleware(handler)
	}
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("GET /auth/login/start", http.HandlerFunc(h.Login))
	mux.Handle("GET /auth/callback", http.HandlerFunc(h.Callback))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))
}

func registerCatalogRoutes(mux *http.ServeMux, h *CatalogHandlers) {
	mux.Handle("GET /api/catalog", http.HandlerFunc(h.List))
	mux.Handle("GET /api/catalog/{id}", http.HandlerFunc(h.Get))
	mux.Handle("POST /api/catalog", http.HandlerFunc(h.Create))
	mux.Handle("PUT /api/catalog/{id}/availability", http.HandlerFunc(h.SetAvailability))
}

func registerOrderRoutes(mux *http.ServeMux, h *OrderHandlers) {
	mux.Handle("POST /api/orders", http.HandlerFunc(h.Checkout))
	mux.Handle("GET /api/orders", http.HandlerFunc(h.List))
	mux.Handle("GET /api/orders/{id}", http.HandlerFunc(h.Get))
}

func registerMessageRoutes(mux *http.ServeMux, h *MessageHandlers) {
	mux.Handle("POST /api/messages", http.HandlerFunc(h.Send))
	mux.Handle("GET /api/messages", http.HandlerFunc(h.Thread))
	mux.Handle("GET /api/messages/notifications", http.HandlerFunc(h.Notifications))
	mux.Handle("GET /api/messages/{thread}", http.HandlerFunc(h.Thread))
}
