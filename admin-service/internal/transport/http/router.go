package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/service"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/log"
	"github.com/pribylovaa/go-music-stream/pkg/metrics"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger *slog.Logger
	// ServiceName — имя сервиса: audience для входящих межсервисных
	// токенов и метка в метриках.
	ServiceName string
	// ServiceTokens — проверка X-Service-Token входящих запросов.
	ServiceTokens *internalauth.ServiceTokens
	// UserTokens — проверка пользовательского access-токена; шлюз уже
	// отфильтровал не-админов, но роль перепроверяется и здесь.
	UserTokens *security.Tokens
	// Timeout — общий дедлайн запроса.
	Timeout time.Duration
	// Ready — флаг готовности для /healthz.
	Ready *atomic.Bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
// Доменные эндпойнты требуют ОБА токена: межсервисный в X-Service-Token
// и админский access в Authorization.
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
		r.Use(internalauth.Require(opts.ServiceTokens, opts.ServiceName))
		r.Use(requireAdmin(opts.UserTokens))

		r.Get("/internal/admin/users", h.Users)
		r.Get("/internal/admin/songs", h.Songs)
	})

	return root
}

// requireAdmin проверяет Authorization: Bearer <access> и role=admin.
// Отсутствующий или невалидный токен — 401, валидный без роли admin — 403.
func requireAdmin(tokens *security.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				writeError(w, r, http.StatusUnauthorized, "unauthenticated", "missing access token")
				return
			}

			claims, err := tokens.ParseAccess(strings.TrimPrefix(raw, "Bearer "))
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid access token")
				return
			}

			if claims.Role != "admin" {
				log.From(r.Context()).Warn("admin_access_denied",
					"user_id", claims.Subject,
					"role", claims.Role,
				)
				writeError(w, r, http.StatusForbidden, "forbidden", "admin role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
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
