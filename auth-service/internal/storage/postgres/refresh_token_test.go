package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
)

// Интеграционные тесты репозиториев refresh_token.go и verification_token.go.
// Инфраструктура (testcontainers + миграции) — в user_test.go.

func mustSaveRefresh(t *testing.T, st *Storage, userID uuid.UUID, ttl time.Duration) *models.RefreshToken {
	t.Helper()

	now := time.Now().UTC()
	token := &models.RefreshToken{
		TokenJTI:  uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Revoked:   false,
	}
	require.NoError(t, st.SaveRefreshToken(context.Background(), token))
	return token
}

func TestIntegration_SaveRefreshToken_And_GetByJTI_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "rt@example.com")
	token := mustSaveRefresh(t, st, u.ID, time.Hour)

	got, err := st.RefreshTokenByJTI(context.Background(), token.TokenJTI)
	require.NoError(t, err)
	require.Equal(t, token.TokenJTI, got.TokenJTI)
	require.Equal(t, u.ID, got.UserID)
	require.False(t, got.Revoked)
	require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestIntegration_SaveRefreshToken_DuplicateJTI_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "rt-dup@example.com")
	token := mustSaveRefresh(t, st, u.ID, time.Hour)

	dup := &models.RefreshToken{
		TokenJTI:  token.TokenJTI,
		UserID:    u.ID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	err := st.SaveRefreshToken(context.Background(), dup)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_RevokeRefreshTokenIfActive_Lifecycle(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "rt-rotate@example.com")
	token := mustSaveRefresh(t, st, u.ID, time.Hour)

	// Первый отзыв: токен был активен.
	revoked, err := st.RevokeRefreshTokenIfActive(context.Background(), token.TokenJTI)
	require.NoError(t, err)
	require.True(t, revoked)

	// Повторный отзыв: запись существует, но уже отозвана.
	revoked, err = st.RevokeRefreshTokenIfActive(context.Background(), token.TokenJTI)
	require.NoError(t, err)
	require.False(t, revoked)

	// Незнакомый jti.
	_, err = st.RevokeRefreshTokenIfActive(context.Background(), uuid.NewString())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_RevokeRefreshToken_OK_And_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "rt-revoke@example.com")
	token := mustSaveRefresh(t, st, u.ID, time.Hour)

	require.NoError(t, st.RevokeRefreshToken(context.Background(), token.TokenJTI))

	got, err := st.RefreshTokenByJTI(context.Background(), token.TokenJTI)
	require.NoError(t, err)
	require.True(t, got.Revoked)

	err = st.RevokeRefreshToken(context.Background(), uuid.NewString())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_DeleteExpiredTokens(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "rt-janitor@example.com")
	expired := mustSaveRefresh(t, st, u.ID, -time.Minute)
	alive := mustSaveRefresh(t, st, u.ID, time.Hour)

	require.NoError(t, st.DeleteExpiredTokens(context.Background(), time.Now().UTC()))

	_, err := st.RefreshTokenByJTI(context.Background(), expired.TokenJTI)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.RefreshTokenByJTI(context.Background(), alive.TokenJTI)
	require.NoError(t, err)
}

func TestIntegration_VerificationToken_Lifecycle(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "vt@example.com")

	now := time.Now().UTC()
	vt := &models.EmailVerificationToken{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	require.NoError(t, st.SaveVerificationToken(context.Background(), vt))

	got, err := st.VerificationToken(context.Background(), vt.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.Nil(t, got.UsedAt)

	// Первое применение — успех.
	uid, err := st.UseVerificationToken(context.Background(), vt.Token, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, u.ID, uid)

	// Повторное применение — отказ.
	_, err = st.UseVerificationToken(context.Background(), vt.Token, time.Now().UTC())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UseVerificationToken_Expired(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "vt-expired@example.com")

	now := time.Now().UTC()
	vt := &models.EmailVerificationToken{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-24 * time.Hour),
	}
	require.NoError(t, st.SaveVerificationToken(context.Background(), vt))

	_, err := st.UseVerificationToken(context.Background(), vt.Token, now)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
