package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/models"
	"github.com/pribylovaa/go-music-stream/admin-service/internal/service"
	"github.com/pribylovaa/go-music-stream/admin-service/mocks"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

const serviceName = "admin-service"

type routerEnv struct {
	router        http.Handler
	storage       *mocks.MockStorage
	serviceTokens *internalauth.ServiceTokens
	userTokens    *security.Tokens
}

func testRouter(t *testing.T) routerEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	st := mocks.NewMockStorage(ctrl)

	serviceTokens := internalauth.New(internalauth.Config{
		Secret: "internal-unit-secret",
		TTL:    time.Minute,
	})
	userTokens := security.NewTokens(security.Config{
		Secret:     "unit-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})

	var ready atomic.Bool
	ready.Store(true)

	router := NewRouter(service.New(st, 100), Options{
		ServiceName:   serviceName,
		ServiceTokens: serviceTokens,
		UserTokens:    userTokens,
		Timeout:       5 * time.Second,
		Ready:         &ready,
	})

	return routerEnv{router: router, storage: st, serviceTokens: serviceTokens, userTokens: userTokens}
}

// doGet выполняет GET с опциональными токенами: пустая строка — заголовок
// не выставляется.
func (e routerEnv) doGet(t *testing.T, path, serviceToken, accessToken string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if serviceToken != "" {
		req.Header.Set(internalauth.HeaderServiceToken, serviceToken)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e routerEnv) mintTokens(t *testing.T, role string) (serviceToken, accessToken string) {
	t.Helper()

	serviceToken, err := e.serviceTokens.NewServiceToken("api-gateway", serviceName)
	require.NoError(t, err)

	accessToken, err = e.userTokens.NewAccessToken(uuid.NewString(), role)
	require.NoError(t, err)

	return serviceToken, accessToken
}

func TestAdminUsers_OK(t *testing.T) {
	env := testRouter(t)
	svcToken, access := env.mintTokens(t, "admin")

	verified := time.Now().UTC().Truncate(time.Second)
	env.storage.EXPECT().Users(gomock.Any(), 100).Return([]models.User{
		{ID: uuid.New(), Email: "a@example.com", Role: "admin", VerifiedAt: &verified, CreatedAt: verified},
		{ID: uuid.New(), Email: "b@example.com", Role: "user", CreatedAt: verified},
	}, nil)

	rec := env.doGet(t, "/internal/admin/users", svcToken, access)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp usersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 2)
	require.Equal(t, "a@example.com", resp.Users[0].Email)
	require.NotNil(t, resp.Users[0].VerifiedAt)
	require.Nil(t, resp.Users[1].VerifiedAt)
}

func TestAdminSongs_OK(t *testing.T) {
	env := testRouter(t)
	svcToken, access := env.mintTokens(t, "admin")

	env.storage.EXPECT().Songs(gomock.Any(), 100).Return([]models.Song{
		{ID: uuid.New(), Title: "Track", Artist: "Artist", DurationSec: 215, CreatedAt: time.Now().UTC()},
	}, nil)

	rec := env.doGet(t, "/internal/admin/songs", svcToken, access)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp songsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Songs, 1)
	require.Equal(t, "Track", resp.Songs[0].Title)
}

func TestAdminUsers_EmptyListing(t *testing.T) {
	env := testRouter(t)
	svcToken, access := env.mintTokens(t, "admin")

	env.storage.EXPECT().Users(gomock.Any(), 100).Return(nil, nil)

	rec := env.doGet(t, "/internal/admin/users", svcToken, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"users":[]}`, rec.Body.String())
}

func TestAdminUsers_MissingServiceToken(t *testing.T) {
	env := testRouter(t)
	_, access := env.mintTokens(t, "admin")

	rec := env.doGet(t, "/internal/admin/users", "", access)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUsers_MissingAccessToken(t *testing.T) {
	env := testRouter(t)
	svcToken, _ := env.mintTokens(t, "admin")

	rec := env.doGet(t, "/internal/admin/users", svcToken, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUsers_UserRoleForbidden(t *testing.T) {
	env := testRouter(t)
	svcToken, access := env.mintTokens(t, "user")

	rec := env.doGet(t, "/internal/admin/users", svcToken, access)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "forbidden", resp.Error.Code)
}

func TestAdminUsers_GarbageAccessToken(t *testing.T) {
	env := testRouter(t)
	svcToken, _ := env.mintTokens(t, "admin")

	rec := env.doGet(t, "/internal/admin/users", svcToken, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUsers_RefreshTokenRejected(t *testing.T) {
	env := testRouter(t)
	svcToken, _ := env.mintTokens(t, "admin")

	refresh, _, _, err := env.userTokens.NewRefreshToken(uuid.NewString(), "admin")
	require.NoError(t, err)

	rec := env.doGet(t, "/internal/admin/users", svcToken, refresh)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOpsEndpointsOpen(t *testing.T) {
	env := testRouter(t)

	for _, path := range []string{"/livez", "/healthz", "/metrics"} {
		rec := env.doGet(t, path, "", "")
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}
