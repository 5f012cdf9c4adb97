package docs

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	specRoute = "/docs/openapi.yaml"
	// DefaultSpecPath is relative to the repository root, where the binaries run from
	DefaultSpecPath = "docs/swagger.yaml"
)

// RegisterRoutes mounts the Swagger UI for the document Q&A API. The UI is
// only mounted when the spec file exists so a stripped container still boots.
func RegisterRoutes(r chi.Router, specPath string) bool {
	if _, err := os.Stat(specPath); err != nil {
		return false
	}

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(specRoute, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, specPath)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL(specRoute),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return true
}
