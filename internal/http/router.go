package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires the public and admin routes. The notification intercept
// wraps everything so inbound Easify calls bypass normal routing.
func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", LoginHandler)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)
			r.Get("/settings", SettingsHandler)
			r.Put("/settings", UpdateSettingsHandler)
			r.Post("/test-connection", TestConnectionHandler)
			r.Post("/discover", DiscoverHandler)
			r.Get("/reference-data", ReferenceDataHandler)
			r.Post("/orders/{orderNo}/export", ExportOrderHandler)
			r.Post("/products/{sku}/sync", SyncProductHandler)
		})
	})

	return NotificationIntercept(r)
}
