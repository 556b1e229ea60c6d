package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/furniq/furniq-admin/internal/auth"
	"github.com/furniq/furniq-admin/internal/catalog/categories"
	"github.com/furniq/furniq-admin/internal/catalog/products"
	"github.com/furniq/furniq-admin/internal/inventory"
	"github.com/furniq/furniq-admin/internal/users"
	"github.com/furniq/furniq-admin/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    auth.Middleware
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	InventoryHandler  *inventory.Handler
	UsersHandler      *users.Handler
	JobsHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with FurniQ defaults. Resource routes
// require a bearer token; auth and health endpoints do not.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// The SPA polls this to decide between live and offline mode.
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.Require)
			r.Route("/products", params.ProductsHandler.MountRoutes)
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
			r.Route("/inventories", params.InventoryHandler.MountRoutes)
			r.Route("/users", params.UsersHandler.MountRoutes)
			if params.JobsHandler != nil {
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
