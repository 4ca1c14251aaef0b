// errors стандартизирует ответы об ошибках HTTP-слоя api-gateway.
// На вход он принимает ошибку (локальную ошибку шлюза или ошибку апстрима),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Ошибки апстримов приходят уже в едином конверте {error:{code,message}} —
// шлюз ретранслирует их статус и тело без перекодирования.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Локальные ошибки шлюза.
var (
	// ErrUnauthenticated — отсутствует/битый access-токен. HTTP 401.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — аутентифицирован, но прав недостаточно. HTTP 403.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest — некорректное тело/параметры запроса. HTTP 400.
	ErrBadRequest = errors.New("bad request")
	// ErrRateLimited — превышен лимит запросов. HTTP 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrUpstreamUnavailable — внутренний сервис недоступен. HTTP 503.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует локальную ошибку шлюза в HTTP-статус и единый конверт.
// err == nil — это программная ошибка вызова: возвращаем 500/internal,
// чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)
	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// Relay ретранслирует ошибочный ответ апстрима клиенту как есть.
// Если тело не является валидным конвертом ошибки — подменяем на безопасный
// generic-ответ с тем же статусом, чтобы не протечь внутренними деталями.
func Relay(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error.Code == "" {
		resp = ErrorResponse{Error: APIError{Code: "internal", Message: "internal error"}}
	}

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг локальных ошибок шлюза.
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "too many requests"
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
