package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/solenne/boutique/internal/data"
	"github.com/solenne/boutique/internal/domain/model"
	"github.com/solenne/boutique/internal/gate"
	"github.com/solenne/boutique/internal/service"
)

// CatalogHandlers provides HTTP handlers for the product catalog.
type CatalogHandlers struct {
	Svc *service.CatalogService
}

// List handles GET /api/catalog.
func (h *CatalogHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	pieces, err := h.Svc.ListPieces(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"pieces": pieces})
}

// Get handles GET /api/catalog/{id}.
func (h *CatalogHandlers) Get(w http.ResponseWriter, r *http.Request) {
	piece, err := h.Svc.GetPiece(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrProductNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, piece)
}

// Create handles POST /api/catalog. Curation console only; the gate has
// already required the admin role, this is defense in depth.
func (h *CatalogHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req model.CreateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	piece, err := h.Svc.AddPiece(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, piece)
}

// SetAvailability handles PUT /api/catalog/{id}/availability.
func (h *CatalogHandlers) SetAvailability(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req struct {
		Available bool `json:"available"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SetAvailability(r.Context(), r.PathValue("id"), req.Available); err != nil {
		if errors.Is(err, data.ErrProductNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// paginationParams reads limit/offset query params with defaults.
func paginationParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// requireVisitor extracts the resolved visitor or writes a 401.
func requireVisitor(w http.ResponseWriter, r *http.Request) (*gate.Visitor, bool) {
	visitor, ok := gate.VisitorFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return nil, false
	}
	return visitor, true
}

// requireAdmin extracts the resolved visitor and enforces the admin role.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return false
	}
	if !visitor.Role.IsAdmin() {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "insufficient_permissions",
			Err:     errors.New("insufficient permissions"),
		})
		return false
	}
	return true
}
