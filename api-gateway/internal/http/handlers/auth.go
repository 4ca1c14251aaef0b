package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-music-stream/api-gateway/internal/errors"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/models"
	"github.com/pribylovaa/go-music-stream/pkg/log"
	"github.com/pribylovaa/go-music-stream/pkg/redact"
)

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	if !h.Limiter.Allow("signup:"+clientIP(r), h.Limits.AuthLimit, h.Limits.AuthWindow) {
		log.From(r.Context()).Warn("signup_rate_limited", slog.String("ip", clientIP(r)))
		apierrors.WriteError(w, r, apierrors.ErrRateLimited)
		return
	}

	var in models.AuthSignUpRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	resp, err := h.Clients.Auth.Post(r.Context(), "/auth/signup", in)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.AuthResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, out.RefreshToken, h.refreshMaxAge)
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in models.AuthVerifyRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	resp, err := h.Clients.Auth.Post(r.Context(), "/auth/verify", in)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in models.AuthSignInRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	// Лимит считается по паре IP+email: защищает конкретный аккаунт
	// от перебора, не блокируя соседей по NAT.
	key := "signin:" + clientIP(r) + ":" + strings.ToLower(strings.TrimSpace(in.Email))
	if !h.Limiter.Allow(key, h.Limits.AuthLimit, h.Limits.AuthWindow) {
		log.From(r.Context()).Warn("signin_rate_limited",
			slog.String("ip", clientIP(r)),
			slog.String("email", redact.Email(in.Email)),
		)
		apierrors.WriteError(w, r, apierrors.ErrRateLimited)
		return
	}

	resp, err := h.Clients.Auth.Post(r.Context(), "/auth/signin", in)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.AuthResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, out.RefreshToken, h.refreshMaxAge)
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)
	if token == "" {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	resp, err := h.Clients.Auth.Post(r.Context(), "/auth/refresh", models.AuthRefreshRequest{RefreshToken: token})
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		// Недействительный refresh: гасим cookie, чтобы браузер не
		// предъявлял его снова.
		h.clearRefreshCookie(w)
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.AuthResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, out.RefreshToken, h.refreshMaxAge)
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)

	// Выход без токена просто чистит cookie: операция идемпотентна.
	if token != "" {
		resp, err := h.Clients.Auth.Post(r.Context(), "/auth/logout", models.AuthRefreshRequest{RefreshToken: token})
		if err != nil {
			apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
			return
		}
		if !resp.OK() {
			h.clearRefreshCookie(w)
			apierrors.Relay(w, r, resp.Status, resp.Body)
			return
		}
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
