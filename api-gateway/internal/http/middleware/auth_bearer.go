package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-music-stream/api-gateway/internal/errors"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

// AuthBearer извлекает Bearer-токен из Authorization и кладёт "сырой" токен
// в контекст. Проверку подписи выполняет RequireUser на защищённых маршрутах.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if auth != "" {
				const prefix = "Bearer "
				if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
					token := strings.TrimSpace(auth[len(prefix):])

					if token != "" {
						ctx := context.WithValue(r.Context(), ctxKeyAuthToken{}, token)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser проверяет access-токен (подпись, срок, type=access) и кладёт
// claims в контекст. Любой дефект токена — единый 401 без деталей.
func RequireUser(tokens *security.Tokens) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := AuthTokenFrom(r.Context())
			if raw == "" {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			claims, err := tokens.ParseAccess(raw)
			if err != nil {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin дополнительно требует role=admin в уже проверенных claims.
// Ставится ПОСЛЕ RequireUser. Роль перепроверяется и в admin-service.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := UserFrom(r.Context())
			if claims == nil {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}
			if claims.Role != "admin" {
				apierrors.WriteError(w, r, apierrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
