package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/go-music-stream/api-gateway/internal/errors"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/models"
)

func (h *Handlers) StreamURL(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	songID := chi.URLParam(r, "song_id")
	if songID == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	path := "/internal/stream-url/" + url.PathEscape(songID) + "?user_id=" + url.QueryEscape(claims.Subject)
	resp, err := h.Clients.Stream.Get(r.Context(), path)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.StreamURLResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
