package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Projects       *ProjectHandler
	Votes          *VoteHandler
	Auth           *AuthMiddleware
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewHandler(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.With(cfg.Auth.OptionalUser).Get("/", cfg.Projects.ListProjects)
			r.With(cfg.Auth.OptionalUser).Get("/{id}", cfg.Projects.GetProject)
			r.With(cfg.Auth.RequireUser).Post("/", cfg.Projects.CreateProject)
		})

		r.With(cfg.Auth.RequireUser).Post("/vote", cfg.Votes.Vote)
	})

	return r
}
