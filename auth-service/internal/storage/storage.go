package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/jti).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// MarkUserVerified проставляет отметку подтверждения email.
	MarkUserVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RefreshTokenStorage ведёт журнал refresh-токенов по их jti.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет запись о выпущенном refresh-токене.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByJTI находит запись по jti.
	RefreshTokenByJTI(ctx context.Context, jti string) (*models.RefreshToken, error)
	// RevokeRefreshToken помечает запись как отозванную.
	RevokeRefreshToken(ctx context.Context, jti string) error
	// RevokeRefreshTokenIfActive атомарно отзывает запись, если она ещё активна.
	RevokeRefreshTokenIfActive(ctx context.Context, jti string) (bool, error)
	// DeleteExpiredTokens удаляет все просроченные записи.
	DeleteExpiredTokens(ctx context.Context, now time.Time) error
}

// VerificationTokenStorage выполняет операции над токенами подтверждения email.
type VerificationTokenStorage interface {
	// SaveVerificationToken сохраняет одноразовый токен подтверждения.
	SaveVerificationToken(ctx context.Context, token *models.EmailVerificationToken) error
	// VerificationToken находит токен подтверждения по значению.
	VerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error)
	// UseVerificationToken атомарно помечает токен использованным и
	// возвращает ID владельца. Повторное применение — ErrNotFound.
	UseVerificationToken(ctx context.Context, token string, at time.Time) (uuid.UUID, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	VerificationTokenStorage
	Close()
}
