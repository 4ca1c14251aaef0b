package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/service"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/log"
	"github.com/pribylovaa/go-music-stream/pkg/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger *slog.Logger
	// ServiceName — имя сервиса: audience для входящих межсервисных
	// токенов и метка в метриках.
	ServiceName string
	// Tokens — проверка X-Service-Token входящих запросов.
	Tokens *internalauth.ServiceTokens
	// Timeout — общий дедлайн запроса.
	Timeout time.Duration
	// Ready — флаг готовности для /healthz.
	Ready *atomic.Bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
// Служебные эндпойнты (/livez, /healthz, /metrics) регистрируются на корне
// без проверки межсервисного токена; доменные — под ней.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	root.Use(
		chimw.Recoverer,
		chimw.RequestID,
		loggerMiddleware(opts.Logger),
		metrics.Middleware(opts.ServiceName),
	)
	if opts.Timeout > 0 {
		root.Use(chimw.Timeout(opts.Timeout))
	}

	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready != nil && opts.Ready.Load() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	root.Handle("/metrics", metrics.Handler())

	h := NewHandlers(svc)

	root.Group(func(r chi.Router) {
		r.Use(internalauth.Require(opts.Tokens, opts.ServiceName))

		r.Post("/internal/songs", h.ImportSong)
		r.Get("/internal/songs/{song_id}", h.Song)
		r.Get("/internal/library/{user_id}", h.Library)
	})

	return root
}

// loggerMiddleware кладёт request-scoped логгер в контекст запроса.
func loggerMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if lg == nil {
				next.ServeHTTP(w, r)
				return
			}

			reqLog := lg.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if rid := chimw.GetReqID(r.Context()); rid != "" {
				reqLog = reqLog.With(slog.String("request_id", rid))
			}

			next.ServeHTTP(w, r.WithContext(log.Into(r.Context(), reqLog)))
		})
	}
}
