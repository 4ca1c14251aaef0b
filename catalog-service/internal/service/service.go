// Package service реализует бизнес-логику каталога: идемпотентный импорт
// треков и пользовательские библиотеки.
package service

import (
	"errors"

	"github.com/pribylovaa/go-music-stream/catalog-service/internal/storage"
)

// Ошибки уровня сервиса. Транспорт отображает их в HTTP-статусы.
var (
	// ErrInvalidArgument — некорректные входные данные.
	// Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSongNotFound — трек не найден.
	// Транспорт: HTTP 404.
	ErrSongNotFound = errors.New("song not found")
)

// Service — слой бизнес-логики каталога.
type Service struct {
	storage storage.Storage
}

// New создаёт Service поверх конкретного хранилища.
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}
