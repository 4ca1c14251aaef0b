package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/models"
	"github.com/pribylovaa/go-music-stream/catalog-service/internal/storage"
	"github.com/pribylovaa/go-music-stream/pkg/log"
)

// ImportSong сохраняет трек и привязывает его к пользователю.
// Повторный импорт той же пары (source_provider, source_id) возвращает
// существующий трек и лишь добавляет связь в библиотеку.
func (s *Service) ImportSong(ctx context.Context, userID uuid.UUID, song models.Song) (*models.Song, error) {
	const op = "service.catalog.ImportSong"

	lg := log.From(ctx)

	song.Title = strings.TrimSpace(song.Title)
	song.Artist = strings.TrimSpace(song.Artist)
	song.SourceProvider = strings.TrimSpace(song.SourceProvider)
	song.SourceID = strings.TrimSpace(song.SourceID)

	if userID == uuid.Nil || song.SourceProvider == "" || song.SourceID == "" || song.Title == "" {
		return nil, ErrInvalidArgument
	}

	saved, err := s.storage.UpsertSong(ctx, song)
	if err != nil {
		lg.Error("upsert_song_failed", "err", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.AddToLibrary(ctx, userID, saved.ID); err != nil {
		lg.Error("add_to_library_failed", "err", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

// Song возвращает трек каталога по идентификатору.
func (s *Service) Song(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	const op = "service.catalog.Song"

	if id == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	song, err := s.storage.SongByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return song, nil
}

// Library возвращает библиотеку пользователя, новые добавления первыми.
func (s *Service) Library(ctx context.Context, userID uuid.UUID) ([]models.Song, error) {
	const op = "service.catalog.Library"

	if userID == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	songs, err := s.storage.LibraryByUser(ctx, userID)
	if err != nil {
		log.From(ctx).Error("library_query_failed", "err", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}
