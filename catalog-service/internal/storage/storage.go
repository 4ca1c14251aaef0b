// Package storage описывает контракт хранилища каталога.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/models"
)

var (
	// ErrNotFound — запрошенная запись отсутствует.
	ErrNotFound = errors.New("not found")
)

// SongStorage — операции над треками каталога.
type SongStorage interface {
	// UpsertSong сохраняет трек. При конфликте по (source_provider, source_id)
	// возвращает уже существующую запись: импорт идемпотентен.
	UpsertSong(ctx context.Context, song models.Song) (*models.Song, error)
	// SongByID возвращает трек по идентификатору.
	// Если трека нет — ErrNotFound.
	SongByID(ctx context.Context, id uuid.UUID) (*models.Song, error)
}

// LibraryStorage — операции над пользовательскими библиотеками.
type LibraryStorage interface {
	// AddToLibrary привязывает трек к пользователю. Повторная привязка
	// не является ошибкой.
	AddToLibrary(ctx context.Context, userID, songID uuid.UUID) error
	// LibraryByUser возвращает библиотеку пользователя, новые треки первыми.
	LibraryByUser(ctx context.Context, userID uuid.UUID) ([]models.Song, error)
}

// Storage объединяет операции каталога.
type Storage interface {
	SongStorage
	LibraryStorage

	Close()
}
