// Package models содержит доменные модели каталога.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Song — трек каталога. Пара (SourceProvider, SourceID) уникальна:
// повторный импорт того же трека возвращает существующую запись.
type Song struct {
	ID             uuid.UUID
	Title          string
	Artist         string
	DurationSec    int
	SourceProvider string
	SourceID       string
	CreatedAt      time.Time
}

// UserSong — связь «трек в библиотеке пользователя».
type UserSong struct {
	UserID  uuid.UUID
	SongID  uuid.UUID
	AddedAt time.Time
}
