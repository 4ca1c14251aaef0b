// Package service реализует админские листинги поверх read-only хранилища.
package service

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/models"
	"github.com/pribylovaa/go-music-stream/admin-service/internal/storage"
)

const defaultListingLimit = 500

// Service — слой бизнес-логики админских выборок.
type Service struct {
	storage storage.Storage
	limit   int
}

// New создаёт Service; limit <= 0 заменяется значением по умолчанию.
func New(storage storage.Storage, limit int) *Service {
	if limit <= 0 {
		limit = defaultListingLimit
	}

	return &Service{storage: storage, limit: limit}
}

// Users возвращает листинг пользователей.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	const op = "service.admin.Users"

	users, err := s.storage.Users(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// Songs возвращает листинг треков каталога.
func (s *Service) Songs(ctx context.Context) ([]models.Song, error) {
	const op = "service.admin.Songs"

	songs, err := s.storage.Songs(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}
