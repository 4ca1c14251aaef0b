package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-music-stream/pkg/log"
	"github.com/pribylovaa/go-music-stream/pkg/security"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/models"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

// StreamURL проверяет владение треком и выпускает короткоживущую ссылку
// на воспроизведение. Токен в ссылке привязан к паре (пользователь, трек).
func (s *Service) StreamURL(ctx context.Context, userID, songID uuid.UUID) (*models.StreamLink, error) {
	const op = "service.stream.StreamURL"

	if userID == uuid.Nil || songID == uuid.Nil {
		return nil, ErrSongNotFound
	}

	owns, err := s.ownership.UserOwnsSong(ctx, userID, songID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !owns {
		return nil, ErrNotInLibrary
	}

	token, err := s.tokens.NewStreamToken(userID.String(), songID.String(), 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	link := strings.TrimRight(s.publicBase, "/") +
		"/public/stream/" + songID.String() +
		"?token=" + url.QueryEscape(token)

	return &models.StreamLink{
		URL:       link,
		ExpiresIn: int(s.tokens.StreamTTL().Seconds()),
	}, nil
}

// Stream проверяет stream-токен и открывает аудиообъект трека.
// Владение перепроверяется по базе: отзыв трека из библиотеки действует
// немедленно, даже при ещё живом токене.
func (s *Service) Stream(ctx context.Context, songID uuid.UUID, token string, rng *storage.ByteRange) (*storage.AudioObject, error) {
	const op = "service.stream.Stream"

	lg := log.From(ctx)

	claims, err := s.tokens.ParseStream(token, songID.String())
	if err != nil {
		mapped := mapTokenError(err)
		lg.Warn("stream_token_rejected", "reason", mapped.Error())
		return nil, mapped
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrMissingSubject
	}

	owns, err := s.ownership.UserOwnsSong(ctx, userID, songID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !owns {
		return nil, ErrNotInLibrary
	}

	obj, err := s.audio.Audio(ctx, songID, rng)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrSongNotFound
		case errors.Is(err, storage.ErrInvalidRange):
			return nil, ErrInvalidRange
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return obj, nil
}

// mapTokenError переводит ошибки проверки stream-токена в сервисные.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, security.ErrInvalidTokenType):
		return ErrWrongTokenType
	case errors.Is(err, security.ErrSongMismatch):
		return ErrSongMismatch
	case errors.Is(err, security.ErrMissingSubject):
		return ErrMissingSubject
	default:
		return ErrInvalidToken
	}
}
