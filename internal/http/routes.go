package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/handlers"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
)

// NewRouter arma el router completo de la API. Tres capas: rutas públicas,
// rutas con token y rutas solo-admin.
func NewRouter(c *app.Container) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithLogging())
	r.Use(WithMetrics(routePattern))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no existe esa ruta")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	// Health y métricas fuera de /api, sin token
	r.Get("/healthz", handlers.NewHealthzHandler(c))
	r.Method(http.MethodGet, "/metrics", RegisterMetrics(nil))

	r.Route("/api", func(r chi.Router) {
		// Públicas
		r.Post("/users/login", handlers.NewLoginHandler(c))
		r.Get("/users/init", handlers.NewInitHandler(c))
		r.Post("/users", handlers.NewRegisterHandler(c))
		r.Get("/certificates/guest/download/{code}/{kind}", handlers.NewGuestDownloadHandler(c))

		// Con token
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAuth(c.Auth, c.Store))

			r.Get("/users", handlers.NewUsersHandler(c))
			r.Get("/users/current", handlers.NewCurrentUserHandler(c))
			r.Get("/users/smb", handlers.NewSMBScriptHandler(c))
			r.Post("/users/logout", handlers.NewLogoutHandler(c))
			r.Post("/users/guest", handlers.NewGuestInviteHandler(c))
			r.Delete("/users/{username}", handlers.NewDeleteUserHandler(c))

			r.Get("/certificates", handlers.NewListCertificatesHandler(c))
			r.Post("/certificates", handlers.NewCreateCertificateHandler(c))
			r.Delete("/certificates", handlers.NewRevokeAllCertificatesHandler(c))
			r.Delete("/certificates/{id}", handlers.NewRevokeCertificateHandler(c))
			r.Get("/certificates/download/{kind}", handlers.NewDownloadHandler(c))
			r.Get("/certificates/download/{id}/{kind}", handlers.NewDownloadByIDHandler(c))

			r.Get("/devices", handlers.NewListDevicesHandler(c))
			r.Post("/devices", handlers.NewUpsertDeviceHandler(c))

			// Solo-admin
			r.Group(func(r chi.Router) {
				r.Use(middlewares.RequireAdmin())

				r.Post("/users/invite", handlers.NewMemberInviteHandler(c))
				r.Put("/users/promote", handlers.NewPromoteHandler(c))
			})
		})
	})

	return r
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
