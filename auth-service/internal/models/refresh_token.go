package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken — запись журнала refresh-токенов.
//
// Сам токен (JWT) на сервере не хранится: запись ведётся по его
// уникальному идентификатору (jti). Токен считается пригодным к обмену,
// только если запись существует, не отозвана и не просрочена.
type RefreshToken struct {
	TokenJTI  string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// Active сообщает, пригоден ли токен к обмену на момент now.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
