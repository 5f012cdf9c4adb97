package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat-sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Put("/{id}/model", h.SetModel)
		r.Post("/{id}/files", h.AttachFiles)
		r.Post("/{id}/messages", h.SendMessage)
		r.Get("/{id}/transcript", h.GetTranscript)
	})
}
