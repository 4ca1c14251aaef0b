package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTTP_LocalErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"nil", nil, http.StatusInternalServerError, "internal"},
		{"bad_request", ErrBadRequest, http.StatusBadRequest, "invalid_argument"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "permission_denied"},
		{"rate_limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unavailable", ErrUpstreamUnavailable, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.code, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestWriteError_InjectsRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-123")
	rec := httptest.NewRecorder()

	WriteError(rec, req, ErrUnauthenticated)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "rid-123", resp.Error.RequestID)
}

func TestRelay_PassesUpstreamEnvelope(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	body := []byte(`{"error":{"code":"already_exists","message":"email already taken"}}`)
	Relay(rec, req, http.StatusConflict, body)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "already_exists", resp.Error.Code)
	require.Equal(t, "email already taken", resp.Error.Message)
}

func TestRelay_MalformedUpstreamBody_Sanitized(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	Relay(rec, req, http.StatusBadGateway, []byte("<html>panic dump</html>"))

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "internal", resp.Error.Code)
	require.NotContains(t, rec.Body.String(), "panic dump")
}
