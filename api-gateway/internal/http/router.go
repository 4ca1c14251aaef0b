// Package http собирает внешний HTTP-роутер шлюза.
package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-music-stream/api-gateway/internal/http/handlers"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-music-stream/pkg/metrics"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

// RouterOptions — зависимости роутера.
type RouterOptions struct {
	Handlers    *handlers.Handlers
	Tokens      *security.Tokens
	Log         *slog.Logger
	ServiceName string
	Timeout     time.Duration
	Ready       *atomic.Bool
}

// NewRouter строит публичный роутер: пользовательские маршруты под
// RequireUser, админские — дополнительно под RequireAdmin, служебные
// (livez/healthz) открыты.
func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Log),
		middleware.SecurityHeaders(),
		metrics.Middleware(opts.ServiceName),
		middleware.Timeout(opts.Timeout),
	)

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready != nil && !opts.Ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	h := opts.Handlers

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/verify", h.VerifyEmail)
		r.Post("/signin", h.SignIn)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthBearer(),
			middleware.RequireUser(opts.Tokens),
		)

		r.Get("/library", h.Library)
		r.Get("/songs/search", h.SearchSongs)
		r.Post("/songs/import", h.ImportSong)
		r.Get("/jobs/{job_id}", h.JobStatus)
		r.Get("/stream/{song_id}", h.StreamURL)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/admin/users", h.AdminUsers)
			r.Get("/admin/songs", h.AdminSongs)
		})
	})

	return r
}
