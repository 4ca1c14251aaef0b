package middleware

import (
	"context"
	"net/http"

	"github.com/pribylovaa/go-music-stream/pkg/security"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Ключи контекста запроса.
type ctxKeyAuthToken struct{}
type ctxKeyUserClaims struct{}

// AuthTokenFrom возвращает сырой bearer-токен из контекста или "".
func AuthTokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyAuthToken{}).(string); ok {
		return v
	}
	return ""
}

// UserFrom возвращает проверенные claims access-токена или nil.
func UserFrom(ctx context.Context) *security.AccessClaims {
	if v, ok := ctx.Value(ctxKeyUserClaims{}).(*security.AccessClaims); ok {
		return v
	}
	return nil
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}
