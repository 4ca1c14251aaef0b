package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-music-stream/auth-service/internal/service"
)

// APIError — единый формат ошибки для клиентов.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе с ошибкой.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// mapError переводит доменные ошибки сервиса в HTTP-статус и безопасное
// сообщение. Все отказы по refresh-токену (битый/просрочен/отозван)
// схлопываются в один ответ 401, чтобы не давать оракула злоумышленнику.
func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid_argument", "invalid email format"
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, "invalid_argument", "password is too weak"
	case errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, "invalid_argument", "password is empty"
	case errors.Is(err, service.ErrVerificationToken):
		return http.StatusBadRequest, "invalid_argument", "invalid verification token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthenticated", "invalid credentials"
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "unauthenticated", "invalid token"
	case errors.Is(err, service.ErrEmailNotVerified):
		return http.StatusForbidden, "permission_denied", "email not verified"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "already_exists", "email already taken"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// writeError пишет статус и тело единого формата, прокидывая request_id.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := mapError(err)

	resp := ErrorResponse{Error: APIError{Code: code, Message: msg}}
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
