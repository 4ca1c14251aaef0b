package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-music-stream/auth-service/internal/config"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/models"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/service"
	"github.com/pribylovaa/go-music-stream/auth-service/internal/storage"
	"github.com/pribylovaa/go-music-stream/auth-service/mocks"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

const serviceName = "auth-service"

func testRouter(t *testing.T) (http.Handler, *mocks.MockStorage, *internalauth.ServiceTokens) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	st := mocks.NewMockStorage(ctrl)

	tokens := security.NewTokens(security.Config{
		Secret:     "unit-secret",
		AccessTTL:  30 * time.Second,
		RefreshTTL: 24 * time.Hour,
		StreamTTL:  90 * time.Second,
	})
	svc := service.New(st, tokens, security.NewHasher(), config.VerifyConfig{TokenTTL: 24 * time.Hour})

	serviceTokens := internalauth.New(internalauth.Config{
		Secret: "internal-unit-secret",
		TTL:    time.Minute,
	})

	var ready atomic.Bool
	ready.Store(true)

	router := NewRouter(svc, Options{
		ServiceName: serviceName,
		Tokens:      serviceTokens,
		Timeout:     5 * time.Second,
		Ready:       &ready,
	})

	return router, st, serviceTokens
}

func doJSON(t *testing.T, router http.Handler, serviceTokens *internalauth.ServiceTokens, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	if serviceTokens != nil {
		token, err := serviceTokens.NewServiceToken("api-gateway", serviceName)
		require.NoError(t, err)
		req.Header.Set(internalauth.HeaderServiceToken, token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignUp_Created(t *testing.T) {
	t.Parallel()

	router, st, serviceTokens := testRouter(t)

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().SaveVerificationToken(gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

	rec := doJSON(t, router, serviceTokens, "/auth/signup", map[string]string{
		"email":    "user@example.com",
		"password": "Abcdef1!",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var out tokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.UserID)
	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.RefreshToken)
	require.Empty(t, out.VerificationToken)
}

func TestSignUp_EmailTaken_409(t *testing.T) {
	t.Parallel()

	router, st, serviceTokens := testRouter(t)

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: uuid.New()}, nil)

	rec := doJSON(t, router, serviceTokens, "/auth/signup", map[string]string{
		"email":    "user@example.com",
		"password": "Abcdef1!",
	})

	require.Equal(t, http.StatusConflict, rec.Code)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "already_exists", out.Error.Code)
}

func TestSignUp_InvalidBody_400(t *testing.T) {
	t.Parallel()

	router, _, serviceTokens := testRouter(t)

	rec := doJSON(t, router, serviceTokens, "/auth/signup", map[string]string{
		"email":    "user@example.com",
		"password": "Abcdef1!",
		"extra":    "field",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignIn_WrongCredentials_401(t *testing.T) {
	t.Parallel()

	router, st, serviceTokens := testRouter(t)

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(nil, storage.ErrNotFound)

	rec := doJSON(t, router, serviceTokens, "/auth/signin", map[string]string{
		"email":    "user@example.com",
		"password": "Abcdef1!",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "unauthenticated", out.Error.Code)
}

func TestRefresh_GarbageToken_401(t *testing.T) {
	t.Parallel()

	router, _, serviceTokens := testRouter(t)

	rec := doJSON(t, router, serviceTokens, "/auth/refresh", map[string]string{
		"refresh_token": "garbage",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_NoContent(t *testing.T) {
	t.Parallel()

	router, st, serviceTokens := testRouter(t)

	tokens := security.NewTokens(security.Config{
		Secret:     "unit-secret",
		AccessTTL:  30 * time.Second,
		RefreshTTL: 24 * time.Hour,
		StreamTTL:  90 * time.Second,
	})
	refreshToken, jti, _, err := tokens.NewRefreshToken(uuid.NewString(), models.RoleUser)
	require.NoError(t, err)

	st.EXPECT().RevokeRefreshToken(gomock.Any(), jti).Return(nil)

	rec := doJSON(t, router, serviceTokens, "/auth/logout", map[string]string{
		"refresh_token": refreshToken,
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthRoutes_MissingServiceToken_401(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)

	rec := doJSON(t, router, nil, "/auth/signin", map[string]string{
		"email":    "user@example.com",
		"password": "Abcdef1!",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOpsEndpoints_NoServiceTokenNeeded(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)

	for _, path := range []string{"/livez", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}
