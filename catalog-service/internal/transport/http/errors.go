package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/service"
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
// сообщение.
func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrSongNotFound):
		return http.StatusNotFound, "not_found", "song not found"
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
