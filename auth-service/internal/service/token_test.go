package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-music-stream/auth-service/internal/cache"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
)

// issueRefresh — хелпер: выпускает refresh-токен и возвращает (токен, jti, запись журнала).
func issueRefresh(t *testing.T, svc *Service, user *models.User) (string, string, *models.RefreshToken) {
	t.Helper()

	refreshToken, jti, expiresAt, err := svc.tokens.NewRefreshToken(user.ID.String(), user.Role)
	require.NoError(t, err)

	record := &models.RefreshToken{
		TokenJTI:  jti,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
		Revoked:   false,
	}

	return refreshToken, jti, record
}

func TestRefresh_OK_RotatesToken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser}
	refreshToken, jti, record := issueRefresh(t, svc, user)

	st.EXPECT().RefreshTokenByJTI(gomock.Any(), jti).Return(record, nil)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	// Ротация: старая запись атомарно отзывается до выпуска новой.
	st.EXPECT().RevokeRefreshTokenIfActive(gomock.Any(), jti).Return(true, nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.RefreshToken) error {
			require.NotEqual(t, jti, rec.TokenJTI)
			require.Equal(t, user.ID, rec.UserID)
			require.False(t, rec.Revoked)
			return nil
		})

	tp, uid, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)
	require.NotEmpty(t, tp.AccessToken)
	require.NotEmpty(t, tp.RefreshToken)
	require.NotEqual(t, refreshToken, tp.RefreshToken)
}

func TestRefresh_ReuseDetected(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser}
	refreshToken, jti, record := issueRefresh(t, svc, user)

	// Запись ещё выглядит активной на чтении, но между чтением и отзывом
	// её успел отозвать конкурентный обмен.
	st.EXPECT().RefreshTokenByJTI(gomock.Any(), jti).Return(record, nil)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	st.EXPECT().RevokeRefreshTokenIfActive(gomock.Any(), jti).Return(false, nil)

	_, _, err := svc.Refresh(context.Background(), refreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefresh_RevokedInLedger(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	refreshToken, jti, record := issueRefresh(t, svc, user)
	record.Revoked = true

	st.EXPECT().RefreshTokenByJTI(gomock.Any(), jti).Return(record, nil)

	_, _, err := svc.Refresh(context.Background(), refreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefresh_ExpiredInLedger(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	refreshToken, jti, record := issueRefresh(t, svc, user)
	record.ExpiresAt = time.Now().UTC().Add(-time.Minute)

	st.EXPECT().RefreshTokenByJTI(gomock.Any(), jti).Return(record, nil)

	_, _, err := svc.Refresh(context.Background(), refreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefresh_UnknownJTI(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	refreshToken, jti, _ := issueRefresh(t, svc, user)

	st.EXPECT().RefreshTokenByJTI(gomock.Any(), jti).Return(nil, storage.ErrNotFound)

	_, _, err := svc.Refresh(context.Background(), refreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_GarbageToken(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_AccessTokenNotAccepted(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	accessToken, err := svc.tokens.NewAccessToken(uuid.NewString(), models.RoleUser)
	require.NoError(t, err)

	// Подпись валидна, но type=access — обмену не подлежит.
	_, _, err = svc.Refresh(context.Background(), accessToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_UserGone(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	refreshToken, jti, record := issueRefresh(t, svc, user)

	st.EXPECT().RefreshTokenByJTI(gomock.Any(), jti).Return(record, nil)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(nil, storage.ErrNotFound)

	_, _, err := svc.Refresh(context.Background(), refreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueTokenPair_CollisionRetries(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser}

	// Первая попытка — коллизия jti, вторая — успех.
	gomock.InOrder(
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil),
	)

	tp, uid, err := svc.issueTokenPair(context.Background(), user, "")
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)
	require.NotEmpty(t, tp.RefreshToken)
}

// fakeRefreshCache — кэш в памяти для тестов: фиксирует записи и TTL,
// с которым они были положены.
type fakeRefreshCache struct {
	mu      sync.Mutex
	entries map[string]*cache.RefreshEntry
	ttls    map[string]time.Duration
}

func newFakeRefreshCache() *fakeRefreshCache {
	return &fakeRefreshCache{
		entries: make(map[string]*cache.RefreshEntry),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeRefreshCache) Get(_ context.Context, jti string) (*cache.RefreshEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[jti]
	if !ok {
		return nil, false, nil
	}
	cp := *e
	return &cp, true, nil
}

func (f *fakeRefreshCache) Set(_ context.Context, jti string, e *cache.RefreshEntry, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *e
	f.entries[jti] = &cp
	f.ttls[jti] = ttl
	return nil
}

func (f *fakeRefreshCache) MarkRevoked(_ context.Context, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.entries[jti]; ok {
		e.Revoked = true
	}
	return nil
}

func (f *fakeRefreshCache) Close() error { return nil }

// Тёплый кэш избавляет от чтения журнала из БД; новая запись кладётся
// в кэш с TTL в остаток жизни токена.
func TestRefresh_WarmCache_SkipsLedgerRead(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	rc := newFakeRefreshCache()
	svc.SetRefreshCache(rc)

	user := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser}
	refreshToken, jti, _ := issueRefresh(t, svc, user)

	rc.entries[jti] = &cache.RefreshEntry{UserID: user.ID}

	// RefreshTokenByJTI не ожидается: запись берётся из кэша.
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	st.EXPECT().RevokeRefreshTokenIfActive(gomock.Any(), jti).Return(true, nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	tp, uid, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)
	require.NotEmpty(t, tp.RefreshToken)

	// Старый jti отозван в кэше, новый положен с положительным TTL.
	require.True(t, rc.entries[jti].Revoked)
	for newJTI, ttl := range rc.ttls {
		if newJTI == jti {
			continue
		}
		require.Greater(t, ttl, time.Duration(0))
	}
}

func TestRefresh_WarmCache_RevokedEntryRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	rc := newFakeRefreshCache()
	svc.SetRefreshCache(rc)

	user := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser}
	refreshToken, jti, _ := issueRefresh(t, svc, user)

	// До БД дело не доходит: отзыв виден уже в кэше.
	rc.entries[jti] = &cache.RefreshEntry{UserID: user.ID, Revoked: true}

	_, _, err := svc.Refresh(context.Background(), refreshToken)
	require.ErrorIs(t, err, ErrTokenRevoked)
}
