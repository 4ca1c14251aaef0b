// postgres реализует storage.Storage поверх двух пулов: базы
// пользователей (auth) и базы каталога.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/models"
	"github.com/pribylovaa/go-music-stream/admin-service/internal/storage"
)

type Storage struct {
	auth    *pgxpool.Pool
	catalog *pgxpool.Pool
}

// New создаёт подключения к обеим базам. authURL и catalogURL могут
// указывать на один кластер.
func New(ctx context.Context, authURL, catalogURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	auth, err := connect(ctx, authURL)
	if err != nil {
		return nil, fmt.Errorf("%s: auth db: %w", op, err)
	}

	catalog, err := connect(ctx, catalogURL)
	if err != nil {
		auth.Close()
		return nil, fmt.Errorf("%s: catalog db: %w", op, err)
	}

	return &Storage{auth: auth, catalog: catalog}, nil
}

func connect(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Users возвращает до limit пользователей, новые первыми.
func (s *Storage) Users(ctx context.Context, limit int) ([]models.User, error) {
	const op = "storage.postgres.Users"

	query := `SELECT id, email, role, verified_at, created_at
		FROM users ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := s.auth.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Role, &user.VerifiedAt, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// Songs возвращает до limit треков каталога, новые первыми.
func (s *Storage) Songs(ctx context.Context, limit int) ([]models.Song, error) {
	const op = "storage.postgres.Songs"

	query := `SELECT id, title, artist, duration_sec, source_provider, source_id, created_at
		FROM songs ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := s.catalog.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	songs := make([]models.Song, 0)
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(
			&song.ID, &song.Title, &song.Artist, &song.DurationSec,
			&song.SourceProvider, &song.SourceID, &song.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}

// Close закрывает оба пула.
func (s *Storage) Close() {
	s.auth.Close()
	s.catalog.Close()
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
