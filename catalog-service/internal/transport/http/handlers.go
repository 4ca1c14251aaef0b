// Package http реализует REST-транспорт каталога. Запросы приходят
// только от внутренних сервисов и заверяются межсервисным токеном
// в заголовке X-Service-Token.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/models"
	"github.com/pribylovaa/go-music-stream/catalog-service/internal/service"
)

// Handlers агрегирует зависимости транспорта.
type Handlers struct {
	svc *service.Service
}

func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

type importSongRequest struct {
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	DurationSec    int    `json:"duration_sec"`
	SourceProvider string `json:"source_provider"`
	SourceID       string `json:"source_id"`
}

type songResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Artist         string    `json:"artist"`
	DurationSec    int       `json:"duration_sec,omitempty"`
	SourceProvider string    `json:"source_provider,omitempty"`
	SourceID       string    `json:"source_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type libraryResponse struct {
	Songs []songResponse `json:"songs"`
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

func toSongResponse(song models.Song) songResponse {
	return songResponse{
		ID:             song.ID.String(),
		Title:          song.Title,
		Artist:         song.Artist,
		DurationSec:    song.DurationSec,
		SourceProvider: song.SourceProvider,
		SourceID:       song.SourceID,
		CreatedAt:      song.CreatedAt,
	}
}

// ImportSong — POST /internal/songs.
func (h *Handlers) ImportSong(w http.ResponseWriter, r *http.Request) {
	var req importSongRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	song, err := h.svc.ImportSong(r.Context(), userID, models.Song{
		Title:          req.Title,
		Artist:         req.Artist,
		DurationSec:    req.DurationSec,
		SourceProvider: req.SourceProvider,
		SourceID:       req.SourceID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSongResponse(*song))
}

// Song — GET /internal/songs/{song_id}.
func (h *Handlers) Song(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "song_id"))
	if err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	song, err := h.svc.Song(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSongResponse(*song))
}

// Library — GET /internal/library/{user_id}.
func (h *Handlers) Library(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	songs, err := h.svc.Library(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := libraryResponse{Songs: make([]songResponse, 0, len(songs))}
	for _, song := range songs {
		resp.Songs = append(resp.Songs, toSongResponse(song))
	}

	writeJSON(w, http.StatusOK, resp)
}
