package http

import (
	"encoding/json"
	"net/http"
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

// writeError пишет статус и тело единого формата, прокидывая request_id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	resp := ErrorResponse{Error: APIError{Code: code, Message: msg}}
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
