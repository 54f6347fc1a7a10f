package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	JWTSecret []byte

	Auth      *AuthHandler
	Users     *UserHandler
	Positions *PositionHandler
	Votes     *VoteHandler
	Events    *EventsHandler
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", cfg.Auth.Register)
		r.Post("/login", cfg.Auth.Login)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", cfg.Auth.Refresh)
			r.Post("/logout", cfg.Auth.Logout)
		})

		r.Get("/positions", cfg.Positions.List)
		r.Get("/events", cfg.Events.Stream)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.JWTSecret))

			r.Get("/me", cfg.Users.GetMe)

			r.Post("/positions", cfg.Positions.Create)
			r.Route("/positions/{id}", func(r chi.Router) {
				r.Post("/candidates", cfg.Positions.AddCandidate)
				r.Post("/votes", cfg.Votes.CastVote)
				r.Delete("/", cfg.Positions.Delete)
			})
		})
	})

	return r
}
