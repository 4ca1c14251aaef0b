package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
)

// SignUp регистрирует нового пользователя и выпускает пару токенов.
// Вторым значением возвращается verification-токен: непустой только в режиме
// разработки (Verify.ExposeToken), иначе токен уходит почтовым каналом.
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, string, error) {
	const op = "service.auth.SignUp"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		Role:         s.roleFor(normEmail),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	verifyToken, err := s.issueVerificationToken(ctx, user.ID, now)
	if err != nil {
		return nil, uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	pair, uid, err := s.issueTokenPair(ctx, user, "")
	if err != nil {
		return nil, uuid.Nil, "", err
	}

	if !s.verify.ExposeToken {
		verifyToken = ""
	}

	return pair, uid, verifyToken, nil
}

// VerifyEmail гасит verification-токен и помечает пользователя подтверждённым.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	const op = "service.auth.VerifyEmail"

	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%s: %w", op, ErrVerificationToken)
	}

	now := time.Now().UTC()

	userID, err := s.storage.UseVerificationToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrVerificationToken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.MarkUserVerified(ctx, userID, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SignIn выполняет вход по email+пароль.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.SignIn"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if s.verify.Required && !user.Verified() {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailNotVerified)
	}

	return s.issueTokenPair(ctx, user, "")
}

// Refresh обменивает refresh-токен на новую пару с ротацией:
// предъявленный токен атомарно отзывается, взамен выпускается новый.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.Refresh"

	entry, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, entry.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, user, entry.TokenJTI)
}

// Logout отзывает refresh-токен. Операция идемпотентна: повторный выход
// и выход с уже отозванным токеном завершаются успешно.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "service.auth.Logout"

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := s.storage.RevokeRefreshToken(ctx, claims.ID); err != nil {
		// Незнакомый jti при корректной подписи — считаем сессию завершённой.
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if s.rcache != nil {
		// Кэш — best-effort: БД уже обновлена.
		_ = s.rcache.MarkRevoked(ctx, claims.ID)
	}

	return nil
}

// roleFor возвращает роль для нового пользователя.
func (s *Service) roleFor(email string) string {
	if s.verify.AdminBootstrapEmail != "" && strings.EqualFold(email, s.verify.AdminBootstrapEmail) {
		return models.RoleAdmin
	}

	return models.RoleUser
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
