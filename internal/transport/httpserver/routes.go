package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"lead-intake-go/internal/config"
	"lead-intake-go/internal/transport/httpserver/handler"
	authmw "lead-intake-go/internal/transport/httpserver/middleware"
	"lead-intake-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, gate authmw.Authenticator, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLog(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(authmw.NewCORS(cfg.HTTP.AllowedOrigins))

	auth := authmw.NewAuth(gate, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// The public form posts without credentials.
		r.Post("/formulario", handlers.CreateLead)

		r.Post("/auth/signin", handlers.SignIn)
		r.Post("/auth/signup", handlers.SignUp)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/auth/signout", handlers.SignOut)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Get("/formulario", handlers.ListLeads)
				r.Get("/formulario/{id}", handlers.GetLead)
				r.Put("/formulario/{id}", handlers.UpdateLead)
				r.Delete("/formulario/{id}", handlers.DeleteLead)

				r.Get("/dashboard/metrics", handlers.DashboardMetrics)
				r.Get("/dashboard/charts", handlers.DashboardCharts)

				r.Get("/users", handlers.ListUsers)
				r.Post("/users", handlers.CreateUser)
				r.Put("/users/{id}", handlers.UpdateUser)
				r.Delete("/users/{id}", handlers.DeleteUser)
			})
		})
	})

	if cfg.HTTP.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.HTTP.StaticDir)))
	}

	return r
}
