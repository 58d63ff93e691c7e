// AngelaMos | 2026
// handler.go

package pricing

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/proofofhustle/api/internal/core"
)

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/pricing", h.GetPricing)
}

func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	country := strings.ToUpper(r.URL.Query().Get("country"))

	tier := h.resolver.Resolve(r.Context(), country)

	core.OK(w, tier)
}
