package models

import (
	"net/http"

	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/response"
	"github.com/go-chi/chi/v5"
)

type Catalog interface {
	List() []entity.ModelInfo
	DefaultModel() string
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// ListModels handles GET /models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, &entity.ListModelsResponse{
		Default: h.catalog.DefaultModel(),
		Models:  h.catalog.List(),
	})
}

// RegisterRoutes registers model catalog routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/models", h.ListModels)
}
