// Package http реализует REST-транспорт auth-сервиса. Запросы приходят
// только от внутренних сервисов (api-gateway) и заверяются межсервисным
// токеном в заголовке X-Service-Token.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/service"
)

// Handlers агрегирует зависимости транспорта.
type Handlers struct {
	svc *service.Service
}

func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	UserID            string    `json:"user_id"`
	AccessToken       string    `json:"access_token"`
	RefreshToken      string    `json:"refresh_token"`
	AccessExpiresAt   time.Time `json:"access_expires_at"`
	VerificationToken string    `json:"verification_token,omitempty"`
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

func pairResponse(tp *models.TokenPair, userID, verifyToken string) tokenPairResponse {
	return tokenPairResponse{
		UserID:            userID,
		AccessToken:       tp.AccessToken,
		RefreshToken:      tp.RefreshToken,
		AccessExpiresAt:   tp.AccessExpiresAt,
		VerificationToken: verifyToken,
	}
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, service.ErrInvalidEmail)
		return
	}

	tp, uid, verifyToken, err := h.svc.SignUp(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, pairResponse(tp, uid.String(), verifyToken))
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in verifyRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, service.ErrVerificationToken)
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), in.Token); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, service.ErrInvalidCredentials)
		return
	}

	tp, uid, err := h.svc.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pairResponse(tp, uid.String(), ""))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, service.ErrInvalidToken)
		return
	}

	tp, uid, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pairResponse(tp, uid.String(), ""))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, service.ErrInvalidToken)
		return
	}

	if err := h.svc.Logout(r.Context(), in.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
