package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей в системе.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User - модель пользователя в системе.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	VerifiedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Verified сообщает, подтвердил ли пользователь email.
func (u *User) Verified() bool {
	return u.VerifiedAt != nil
}
