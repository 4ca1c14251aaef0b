// service содержит бизнес-логику auth-сервиса:
// регистрацию/аутентификацию пользователей, ротацию refresh-токенов
// и работу с хранилищем через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются и далее маппятся
//     транспортом на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-music-stream/auth-service/internal/cache"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/config"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или отсутствует в журнале. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/rotation/compromise) и недействителен
	// независимо от срока. Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrEmailNotVerified — вход запрещён до подтверждения email.
	// Транспорт: HTTP 403.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrVerificationToken — токен подтверждения неизвестен, просрочен
	// или уже использован. Транспорт: HTTP 400.
	ErrVerificationToken = errors.New("invalid verification token")

	// ErrRefreshTokenCollision — исчерпаны попытки сохранить запись журнала
	// с уникальным jti (крайне редкий случай). Транспорт: HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")

	// ErrInvalidEmail — e-mail имеет некорректный формат или не проходит политику валидации.
	// Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage storage.Storage
	tokens  *security.Tokens
	hasher  *security.Hasher
	verify  config.VerifyConfig
	rcache  cache.RefreshCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, tokens *security.Tokens, hasher *security.Hasher, verify config.VerifyConfig) *Service {
	return &Service{
		storage: storage,
		tokens:  tokens,
		hasher:  hasher,
		verify:  verify,
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) {
	s.rcache = c
}
