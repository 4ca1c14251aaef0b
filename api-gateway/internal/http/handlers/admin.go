package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-music-stream/api-gateway/internal/errors"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/models"
)

// Админские запросы проксируются вместе с access-токеном вызывающего:
// admin-service повторно проверяет роль сам и не доверяет шлюзу.

func (h *Handlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Clients.Admin.DoAuth(r.Context(), http.MethodGet, "/internal/admin/users", nil, middleware.AuthTokenFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.AdminUsersResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) AdminSongs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Clients.Admin.DoAuth(r.Context(), http.MethodGet, "/internal/admin/songs", nil, middleware.AuthTokenFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.AdminSongsResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
