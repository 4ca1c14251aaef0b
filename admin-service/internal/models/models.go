// Package models содержит модели админских листингов.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — пользователь в админской выдаче. Хэш пароля сюда
// сознательно не попадает.
type User struct {
	ID         uuid.UUID
	Email      string
	Role       string
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

// Song — трек каталога в админской выдаче.
type Song struct {
	ID             uuid.UUID
	Title          string
	Artist         string
	DurationSec    int
	SourceProvider string
	SourceID       string
	CreatedAt      time.Time
}
