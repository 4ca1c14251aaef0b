// Package http реализует транспорт стримингового сервиса. Выдача ссылок
// доступна только внутренним сервисам (X-Service-Token), сама отдача
// аудио — публичная: её авторизует stream-токен в query.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-music-stream/pkg/log"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/service"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

// Handlers агрегирует зависимости транспорта.
type Handlers struct {
	svc *service.Service
}

func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

type streamURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// StreamURL — GET /internal/stream-url/{song_id}?user_id=.
func (h *Handlers) StreamURL(w http.ResponseWriter, r *http.Request) {
	songID, err := uuid.Parse(chi.URLParam(r, "song_id"))
	if err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	link, err := h.svc.StreamURL(r.Context(), userID, songID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streamURLResponse{URL: link.URL, ExpiresIn: link.ExpiresIn})
}

// PublicStream — GET /public/stream/{song_id}?token=.
// Поддерживает байтовые диапазоны: на запрос с Range отвечает 206
// с Content-Range, без него — 200 с объектом целиком.
func (h *Handlers) PublicStream(w http.ResponseWriter, r *http.Request) {
	songID, err := uuid.Parse(chi.URLParam(r, "song_id"))
	if err != nil {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, r, service.ErrInvalidToken)
		return
	}

	rng, ok := parseRange(r.Header.Get("Range"))
	if !ok {
		writeError(w, r, service.ErrInvalidRange)
		return
	}

	obj, err := h.svc.Stream(r.Context(), songID, token, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer func() { _ = obj.Reader.Close() }()

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))

	if obj.Partial() {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d",
			obj.Offset, obj.Offset+obj.Size-1, obj.TotalSize))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if _, err := io.Copy(w, obj.Reader); err != nil {
		// Ответ уже начат, остаётся только залогировать обрыв.
		log.From(r.Context()).Warn("stream_copy_interrupted", "err", err.Error())
	}
}

// parseRange разбирает заголовок Range вида "bytes=N-M" или "bytes=N-".
// Пустой заголовок — не ошибка (nil, true). Суффиксные диапазоны
// ("bytes=-N") и списки диапазонов не поддерживаются.
func parseRange(header string) (*storage.ByteRange, bool) {
	if header == "" {
		return nil, true
	}

	spec, found := strings.CutPrefix(header, "bytes=")
	if !found || strings.Contains(spec, ",") {
		return nil, false
	}

	startRaw, endRaw, found := strings.Cut(spec, "-")
	if !found || startRaw == "" {
		return nil, false
	}

	start, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil || start < 0 {
		return nil, false
	}

	end := int64(-1)
	if endRaw != "" {
		end, err = strconv.ParseInt(endRaw, 10, 64)
		if err != nil || end < start {
			return nil, false
		}
	}

	return &storage.ByteRange{Start: start, End: end}, true
}
