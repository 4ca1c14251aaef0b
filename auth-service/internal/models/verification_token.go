package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationToken — одноразовый токен подтверждения email.
type EmailVerificationToken struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Usable сообщает, можно ли ещё применить токен на момент now.
func (t *EmailVerificationToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
