package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinic-archive/internal/config"
	"clinic-archive/internal/handler"
	"clinic-archive/internal/middleware"
	"clinic-archive/internal/model"
)

type Handlers struct {
	Archive  *handler.ArchiveHandler
	Settings *handler.SettingsHandler
	Audit    *handler.AuditHandler
	WS       *handler.WSHandler
	Metrics  http.Handler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	editors := authMiddleware.RequireRoles(model.RoleEditor, model.RoleAdmin)
	admins := authMiddleware.RequireRoles(model.RoleAdmin)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(authMiddleware.RequireAuth)

		// Hijacked connections cannot pass through http.TimeoutHandler.
		api.Get("/ws", h.WS.Serve)

		api.Group(func(timed chi.Router) {
			timed.Use(middleware.Timeout(cfg.RequestTimeout))

			timed.Get("/archives/{entity_type}", h.Archive.List)
			timed.With(admins).Post("/archives/{entity_type}/purge", h.Archive.Purge)
			timed.With(admins).Post("/archives/{entity_type}/sweep", h.Archive.Sweep)
			timed.Get("/archives/{entity_type}/settings", h.Settings.Get)
			timed.With(admins).Put("/archives/{entity_type}/settings", h.Settings.Update)
			timed.Get("/archives/{entity_type}/{entity_id}", h.Archive.Get)
			timed.With(editors).Post("/archives/{entity_type}/{entity_id}", h.Archive.Archive)
			timed.With(admins).Delete("/archives/{entity_type}/{entity_id}/entries/{index}", h.Archive.DeleteEntry)
			timed.Get("/entities/{entity_type}/name-available", h.Archive.NameAvailable)
			timed.With(admins).Get("/audit", h.Audit.List)
		})
	})

	return r
}
