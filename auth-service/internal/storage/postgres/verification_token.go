package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
)

// SaveVerificationToken сохраняет одноразовый токен подтверждения.
func (s *Storage) SaveVerificationToken(ctx context.Context, token *models.EmailVerificationToken) error {
	const op = "storage.postgres.SaveVerificationToken"

	query := `
        INSERT INTO email_verification_tokens(token, user_id, created_at, expires_at, used_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := s.db.Exec(ctx, query,
		token.Token,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
		token.UsedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// VerificationToken находит токен подтверждения по значению.
func (s *Storage) VerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error) {
	const op = "storage.postgres.VerificationToken"

	query := `
        SELECT token, user_id, created_at, expires_at, used_at
        FROM email_verification_tokens
        WHERE token = $1
    `

	var vt models.EmailVerificationToken
	err := s.db.QueryRow(ctx, query, token).Scan(
		&vt.Token,
		&vt.UserID,
		&vt.CreatedAt,
		&vt.ExpiresAt,
		&vt.UsedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &vt, nil
}

// UseVerificationToken атомарно помечает токен использованным.
// Непросроченный и неиспользованный токен гасится ровно один раз;
// повторное применение возвращает ErrNotFound.
func (s *Storage) UseVerificationToken(ctx context.Context, token string, at time.Time) (uuid.UUID, error) {
	const op = "storage.postgres.UseVerificationToken"

	query := `
		UPDATE email_verification_tokens
		SET used_at = $2
		WHERE token = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING user_id
	`

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, query, token, at).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return userID, nil
}
