// Package storage описывает контракт админского чтения: листинги
// пользователей и каталога без права записи.
package storage

import (
	"context"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/models"
)

// Storage — read-only доступ к базам пользователей и каталога.
type Storage interface {
	// Users возвращает до limit пользователей, новые первыми.
	Users(ctx context.Context, limit int) ([]models.User, error)
	// Songs возвращает до limit треков каталога, новые первыми.
	Songs(ctx context.Context, limit int) ([]models.Song, error)

	Close()
}
