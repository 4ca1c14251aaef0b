package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/pribylovaa/go-music-stream/api-gateway/internal/clients"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/config"
	"github.com/pribylovaa/go-music-stream/pkg/ratelimit"
)

// defaultRefreshTTL страхует случай, когда срок жизни refresh-токена
// не сконфигурирован.
const defaultRefreshTTL = 14 * 24 * time.Hour

// Handlers агрегирует зависимости (HTTP-клиенты апстримов, cookie, лимиты).
type Handlers struct {
	Clients *clients.Clients
	Cookie  config.CookieConfig
	Limits  config.RateLimitConfig
	Limiter *ratelimit.Limiter

	// refreshMaxAge — Max-Age refresh-cookie в секундах; выводится из
	// срока жизни самого токена, чтобы cookie не переживала его и не
	// умирала раньше.
	refreshMaxAge int
}

func New(c *clients.Clients, cookie config.CookieConfig, limits config.RateLimitConfig, refreshTTL time.Duration) *Handlers {
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	return &Handlers{
		Clients:       c,
		Cookie:        cookie,
		Limits:        limits,
		Limiter:       ratelimit.New(),
		refreshMaxAge: int(refreshTTL.Seconds()),
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// clientIP — адрес клиента для ключей rate-limit (без порта).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// setRefreshCookie кладёт refresh-токен в httpOnly cookie.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    token,
		Path:     h.Cookie.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie гасит refresh-cookie.
func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	h.setRefreshCookie(w, "", -1)
}

// refreshTokenFrom достаёт refresh-токен из тела запроса или из cookie.
// Тело имеет приоритет (нативные клиенты), cookie — фолбэк для браузера.
func (h *Handlers) refreshTokenFrom(r *http.Request) string {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeStrict(r, &in); err == nil && in.RefreshToken != "" {
		return in.RefreshToken
	}

	if c, err := r.Cookie(h.Cookie.Name); err == nil {
		return c.Value
	}

	return ""
}
