// Package http реализует REST-транспорт админского сервиса. Эндпойнты
// доступны только изнутри периметра: помимо межсервисного токена
// в X-Service-Token требуется пользовательский access-токен с ролью admin —
// роль перепроверяется здесь, а не только на шлюзе.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/models"
	"github.com/pribylovaa/go-music-stream/admin-service/internal/service"
	"github.com/pribylovaa/go-music-stream/pkg/log"
)

// Handlers агрегирует зависимости транспорта.
type Handlers struct {
	svc *service.Service
}

func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

type userResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
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

type songsResponse struct {
	Songs []songResponse `json:"songs"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		Role:       user.Role,
		VerifiedAt: user.VerifiedAt,
		CreatedAt:  user.CreatedAt,
	}
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

// Users — GET /internal/admin/users.
func (h *Handlers) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users(r.Context())
	if err != nil {
		log.From(r.Context()).Error("admin_users_failed", "err", err.Error())
		writeError(w, r, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	resp := usersResponse{Users: make([]userResponse, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Songs — GET /internal/admin/songs.
func (h *Handlers) Songs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.svc.Songs(r.Context())
	if err != nil {
		log.From(r.Context()).Error("admin_songs_failed", "err", err.Error())
		writeError(w, r, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	resp := songsResponse{Songs: make([]songResponse, 0, len(songs))}
	for _, song := range songs {
		resp.Songs = append(resp.Songs, toSongResponse(song))
	}

	writeJSON(w, http.StatusOK, resp)
}
