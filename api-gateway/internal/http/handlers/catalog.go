package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-music-stream/api-gateway/internal/errors"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-music-stream/api-gateway/internal/models"
)

func (h *Handlers) Library(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	resp, err := h.Clients.Catalog.Get(r.Context(), "/internal/library/"+url.PathEscape(claims.Subject))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.LibraryResponse
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) SearchSongs(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	if !h.Limiter.Allow("search:"+claims.Subject, h.Limits.SearchLimit, h.Limits.SearchWindow) {
		apierrors.WriteError(w, r, apierrors.ErrRateLimited)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	resp, err := h.Clients.Search.Get(r.Context(), "/internal/search?q="+url.QueryEscape(query))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	// Тело апстрима отдаём как есть: формат выдачи определяется поисковым
	// сервисом, шлюз его не пересобирает.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

// JobStatus проксирует статус задачи загрузки. user_id из access-токена
// прокидывается апстриму: чужую задачу по id не посмотреть.
func (h *Handlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	path := "/internal/jobs/" + url.PathEscape(jobID) + "?user_id=" + url.QueryEscape(claims.Subject)
	resp, err := h.Clients.Search.Get(r.Context(), path)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	// Формат задачи определяется сервисом загрузки, шлюз его не пересобирает.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

func (h *Handlers) ImportSong(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	if !h.Limiter.Allow("import:"+claims.Subject, h.Limits.SearchLimit, h.Limits.SearchWindow) {
		apierrors.WriteError(w, r, apierrors.ErrRateLimited)
		return
	}

	var in models.ImportSongRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}
	in.UserID = claims.Subject

	resp, err := h.Clients.Search.Post(r.Context(), "/internal/import", in)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrUpstreamUnavailable)
		return
	}
	if !resp.OK() {
		apierrors.Relay(w, r, resp.Status, resp.Body)
		return
	}

	var out models.Song
	if err := resp.Decode(&out); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, out)
}
