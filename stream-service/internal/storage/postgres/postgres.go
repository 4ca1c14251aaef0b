// postgres реализует storage.OwnershipStorage поверх базы каталога.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

type Storage struct {
	db *pgxpool.Pool
}

// New создает новое подключение к PostgreSQL.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// UserOwnsSong проверяет наличие трека в каталоге и в библиотеке
// пользователя одним запросом.
func (s *Storage) UserOwnsSong(ctx context.Context, userID, songID uuid.UUID) (bool, error) {
	const op = "storage.postgres.UserOwnsSong"

	query := `SELECT
		EXISTS (SELECT 1 FROM songs WHERE id = $2),
		EXISTS (SELECT 1 FROM user_songs WHERE user_id = $1 AND song_id = $2)`

	var songExists, owns bool
	if err := s.db.QueryRow(ctx, query, userID, songID).Scan(&songExists, &owns); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if !songExists {
		return false, storage.ErrNotFound
	}

	return owns, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// Проверка на соответствие интерфейсу OwnershipStorage.
var _ storage.OwnershipStorage = (*Storage)(nil)
