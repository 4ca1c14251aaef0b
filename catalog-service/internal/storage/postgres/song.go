package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/models"
	"github.com/pribylovaa/go-music-stream/catalog-service/internal/storage"
)

// UpsertSong сохраняет трек с upsert по паре (source_provider, source_id).
//
// Политика обновления при конфликте:
//   - title/artist — обновляются, если пришли непустые значения;
//   - duration_sec — обновляется, если пришло положительное значение;
//   - created_at — не меняется.
//
// Возвращается итоговая строка, поэтому повторный импорт отдаёт
// существующий id.
func (s *Storage) UpsertSong(ctx context.Context, song models.Song) (*models.Song, error) {
	const op = "storage.postgres.UpsertSong"

	query := `INSERT INTO songs (id, title, artist, duration_sec, source_provider, source_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source_provider, source_id) DO UPDATE
		SET
		title = CASE WHEN EXCLUDED.title <> '' THEN EXCLUDED.title ELSE songs.title END,
		artist = CASE WHEN EXCLUDED.artist <> '' THEN EXCLUDED.artist ELSE songs.artist END,
		duration_sec = CASE WHEN EXCLUDED.duration_sec > 0 THEN EXCLUDED.duration_sec ELSE songs.duration_sec END
		RETURNING id, title, artist, duration_sec, source_provider, source_id, created_at`

	id := song.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var result models.Song
	err := s.db.QueryRow(ctx, query,
		id, song.Title, song.Artist, song.DurationSec, song.SourceProvider, song.SourceID,
	).Scan(
		&result.ID, &result.Title, &result.Artist, &result.DurationSec,
		&result.SourceProvider, &result.SourceID, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &result, nil
}

// SongByID возвращает трек по идентификатору.
func (s *Storage) SongByID(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	const op = "storage.postgres.SongByID"

	query := `SELECT id, title, artist, duration_sec, source_provider, source_id, created_at
		FROM songs WHERE id = $1`

	var song models.Song
	err := s.db.QueryRow(ctx, query, id).Scan(
		&song.ID, &song.Title, &song.Artist, &song.DurationSec,
		&song.SourceProvider, &song.SourceID, &song.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &song, nil
}

// AddToLibrary привязывает трек к пользователю; повторная привязка — no-op.
func (s *Storage) AddToLibrary(ctx context.Context, userID, songID uuid.UUID) error {
	const op = "storage.postgres.AddToLibrary"

	query := `INSERT INTO user_songs (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING`

	if _, err := s.db.Exec(ctx, query, userID, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LibraryByUser возвращает библиотеку пользователя, новые добавления первыми.
func (s *Storage) LibraryByUser(ctx context.Context, userID uuid.UUID) ([]models.Song, error) {
	const op = "storage.postgres.LibraryByUser"

	query := `SELECT s.id, s.title, s.artist, s.duration_sec, s.source_provider, s.source_id, s.created_at
		FROM user_songs us
		JOIN songs s ON s.id = us.song_id
		WHERE us.user_id = $1
		ORDER BY us.added_at DESC, s.id DESC`

	rows, err := s.db.Query(ctx, query, userID)
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
