// Package storage описывает контракты хранилищ стримингового сервиса:
// проверку владения треком (PostgreSQL каталога) и доступ к аудио
// (бакет MinIO/S3).
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — трек или аудиообъект отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange — Range-заголовок вне границ объекта.
	ErrInvalidRange = errors.New("invalid range")
)

// ByteRange — полузапрошенный диапазон байт из заголовка Range.
// End < 0 означает «до конца объекта».
type ByteRange struct {
	Start int64
	End   int64
}

// AudioObject — открытый на чтение аудиообъект (или его срез).
// Reader обязан быть закрыт вызывающим.
type AudioObject struct {
	Reader      io.ReadCloser
	Size        int64
	TotalSize   int64
	Offset      int64
	ContentType string
}

// Partial сообщает, отдан ли срез объекта, а не объект целиком.
func (o *AudioObject) Partial() bool {
	return o.Size != o.TotalSize
}

// OwnershipStorage — проверка принадлежности трека библиотеке пользователя.
type OwnershipStorage interface {
	// UserOwnsSong возвращает true, если трек есть в библиотеке пользователя.
	// Если трека нет в каталоге вовсе — ErrNotFound.
	UserOwnsSong(ctx context.Context, userID, songID uuid.UUID) (bool, error)

	Close()
}

// AudioStorage — доступ к аудиофайлам по идентификатору трека.
type AudioStorage interface {
	// Audio открывает объект трека; rng == nil означает объект целиком.
	// Отсутствие объекта — ErrNotFound, диапазон за границами — ErrInvalidRange.
	Audio(ctx context.Context, songID uuid.UUID, rng *ByteRange) (*AudioObject, error)
}
