package httpx

import (
	"errors"
	"net/http"

	"github.com/solenne/boutique/internal/data"
	"github.com/solenne/boutique/internal/domain/model"
	"github.com/solenne/boutique/internal/service"
)

// OrderHandlers provides HTTP handlers for checkout and order history.
type OrderHandlers struct {
	Svc *service.OrderService
}

// Checkout handles POST /api/orders.
func (h *OrderHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := h.Svc.Checkout(r.Context(), visitor.Identity.UserID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return
	}

	order, lines, err := h.Svc.GetOrder(r.Context(), visitor.Identity.UserID, r.PathValue("id"), visitor.Role.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, data.ErrOrderNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		case errors.Is(err, service.ErrOrderForbidden):
			// Hide other users' orders entirely rather than confirming they exist.
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: data.ErrOrderNotFound})
		default:
			WriteAppError(w, err)
		}
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"order": order, "lines": lines})
}

// List handles GET /api/orders.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return
	}

	limit, offset := paginationParams(r)
	orders, err := h.Svc.ListOrders(r.Context(), visitor.Identity.UserID, limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
