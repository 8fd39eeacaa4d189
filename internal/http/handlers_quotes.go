package httpx

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/solenne/boutique/internal/service"
)

// symbolPattern bounds oracle symbols to short uppercase codes (XAU, XPT).
var symbolPattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

// QuoteHandlers provides HTTP handlers for the precious-metal ticker.
type QuoteHandlers struct {
	Svc *service.QuoteService
}

// Get handles GET /api/quotes/{symbol}.
func (h *QuoteHandlers) Get(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !symbolPattern.MatchString(symbol) {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_symbol",
			Err:     errors.New("symbol must be a short uppercase code"),
		})
		return
	}

	price, err := h.Svc.Quote(r.Context(), symbol)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "price": price})
}
