package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/cache"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
	"github.com/pribylovaa/go-music-stream/pkg/log"
)

// issueTokenPair выпускает новую пару access+refresh токенов и записывает
// refresh в журнал. Если oldJTI != "", старый refresh атомарно отзывается
// ДО выпуска нового: повторное предъявление того же токена терпит неудачу.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User, oldJTI string) (*models.TokenPair, uuid.UUID, error) {
	const (
		op          = "service.token.issueTokenPair"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	if oldJTI != "" {
		revoked, err := s.storage.RevokeRefreshTokenIfActive(ctx, oldJTI)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		if !revoked {
			lg.Warn("refresh_reuse_detected",
				slog.String("op", op),
				slog.String("user_id", user.ID.String()),
			)
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}

		if s.rcache != nil {
			_ = s.rcache.MarkRevoked(ctx, oldJTI)
		}
	}

	accessToken, err := s.tokens.NewAccessToken(user.ID.String(), user.Role)
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		refreshToken, jti, expiresAt, err := s.tokens.NewRefreshToken(user.ID.String(), user.Role)
		if err != nil {
			lg.Error("refresh_token_sign_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		record := &models.RefreshToken{
			TokenJTI:  jti,
			UserID:    user.ID,
			CreatedAt: now,
			ExpiresAt: expiresAt,
			Revoked:   false,
		}

		if err := s.storage.SaveRefreshToken(ctx, record); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Коллизия jti — пробуем выпустить заново.
				continue
			}

			lg.Error("save_refresh_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		if s.rcache != nil {
			entry := &cache.RefreshEntry{
				UserID:  user.ID,
				Revoked: false,
			}
			// Кэш — best-effort: источником истины остаётся БД.
			// Срок жизни записи несёт TTL ключа.
			_ = s.rcache.Set(ctx, jti, entry, time.Until(expiresAt))
		}

		return &models.TokenPair{
			AccessToken:     accessToken,
			RefreshToken:    refreshToken,
			AccessExpiresAt: now.Add(s.tokens.AccessTTL()),
		}, user.ID, nil
	}

	lg.Error("refresh_collision_exceeded",
		slog.String("op", op),
	)

	return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// validateRefreshToken проверяет подпись refresh-токена и его запись журнала.
// Возвращает запись из журнала (из кэша, если он есть и тёплый).
func (s *Service) validateRefreshToken(ctx context.Context, refreshToken string) (*models.RefreshToken, error) {
	const op = "service.token.validateRefreshToken"

	lg := log.From(ctx)

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if s.rcache != nil {
		if entry, ok, cerr := s.rcache.Get(ctx, claims.ID); cerr == nil && ok {
			if entry.Revoked {
				lg.Warn("refresh_revoked",
					slog.String("op", op),
					slog.String("user_id", entry.UserID.String()),
				)
				return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
			}

			// Живой ключ в Redis означает неистёкший токен: TTL ключа
			// совпадает со сроком жизни токена. exp берём из claims —
			// подпись уже проверена.
			expiresAt := time.Now().UTC()
			if claims.ExpiresAt != nil {
				expiresAt = claims.ExpiresAt.Time.UTC()
			}

			return &models.RefreshToken{
				TokenJTI:  claims.ID,
				UserID:    entry.UserID,
				ExpiresAt: expiresAt,
				Revoked:   entry.Revoked,
			}, nil
		}
	}

	token, err := s.storage.RefreshTokenByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found",
				slog.String("op", op),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("refresh_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if token.Revoked {
		lg.Warn("refresh_revoked",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if time.Now().UTC().After(token.ExpiresAt) {
		lg.Warn("refresh_expired",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return token, nil
}

// issueVerificationToken создаёт одноразовый токен подтверждения email.
func (s *Service) issueVerificationToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, error) {
	const op = "service.token.issueVerificationToken"

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	record := &models.EmailVerificationToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.verify.TokenTTL),
	}

	if err := s.storage.SaveVerificationToken(ctx, record); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}
