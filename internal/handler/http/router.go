package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelasko/todoapp/pkg/health"
	"github.com/avelasko/todoapp/pkg/middleware"
)

// RouterConfig bundles everything the router mounts.
type RouterConfig struct {
	Auth   *AuthHandler
	User   *UserHandler
	Todo   *TodoHandler
	Admin  *AdminHandler
	Health *health.Handler

	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig
	Logger         *slog.Logger
}

// NewRouter assembles the HTTP surface: public registration and token
// routes, bearer-gated user and todo routes, admin routes behind a role
// check, plus health and metrics endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing("todoapp/http"))
	r.Use(middleware.PrometheusMetrics())
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/health/live", cfg.Health.Live)
	r.Get("/health/ready", cfg.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/", cfg.Auth.Register)
		r.Post("/token", cfg.Auth.Token)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenValidator))
		r.Use(ContentTypeJSON)

		r.Route("/user", func(r chi.Router) {
			r.Get("/", cfg.User.Profile)
			r.Put("/password", cfg.User.ChangePassword)
			r.Put("/phone_number", cfg.User.ChangePhoneNumber)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", cfg.Todo.List)
			r.Post("/", cfg.Todo.Create)
			r.Get("/{todoID}", cfg.Todo.Get)
			r.Put("/{todoID}", cfg.Todo.Update)
			r.Put("/{todoID}/complete", cfg.Todo.Complete)
			r.Delete("/{todoID}", cfg.Todo.Delete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))
			r.Get("/todos", cfg.Admin.ListTodos)
			r.Delete("/todos/{todoID}", cfg.Admin.DeleteTodo)
		})
	})

	return r
}
