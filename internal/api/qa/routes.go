package qa

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document Q&A routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/ask", h.Ask)
}
