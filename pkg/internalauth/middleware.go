package internalauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-music-stream/pkg/log"
)

// HeaderServiceToken — заголовок, в котором сервисы передают service-токен.
const HeaderServiceToken = "X-Service-Token"

type ctxKey struct{}

// CallerFrom возвращает имя сервиса-вызывающего (iss) из контекста запроса,
// прошедшего через Require.
func CallerFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}

	return ""
}

// Require — middleware внутренних сервисов: проверяет X-Service-Token
// с собственным именем сервиса как ожидаемым audience. Отсутствующий или
// невалидный токен — 401, чужой audience — 403. Проверка выполняется
// независимо на каждом сервисе (defense in depth), даже если запрос
// уже прошёл и gateway.
func Require(st *ServiceTokens, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lg := log.From(r.Context())

			raw := r.Header.Get(HeaderServiceToken)
			if raw == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "missing internal service token")
				return
			}

			claims, err := st.ParseServiceToken(raw, audience)
			if err != nil {
				lg.Warn("service_token_rejected",
					slog.String("audience", audience),
					slog.String("err", err.Error()),
				)

				if errors.Is(err, ErrAudienceMismatch) {
					writeAuthError(w, http.StatusForbidden, "permission_denied", "internal service token audience mismatch")
					return
				}

				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "invalid internal service token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims.Issuer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + msg + `"}}`))
}
