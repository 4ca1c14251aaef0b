package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

const sampleYAML = `
env: "prod"
http:
  host: "127.0.0.1"
  port: "6000"
metrics:
  port: "6001"
service:
  name: "gw-x"
upstreams:
  auth_url: "http://auth:50081"
  stream_url: "http://stream:50083"
cookie:
  name: "rt"
  secure: false
rate_limit:
  auth_limit: 5
  auth_window: "30s"
timeouts:
  service: "3s"
`

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "127.0.0.1:6000", cfg.HTTP.Addr())
	require.Equal(t, "0.0.0.0:6001", cfg.Metrics.Addr())
	require.Equal(t, "gw-x", cfg.Service.Name)
	require.Equal(t, "http://auth:50081", cfg.Upstreams.AuthURL)
	require.Equal(t, "http://stream:50083", cfg.Upstreams.StreamURL)
	require.Equal(t, "rt", cfg.Cookie.Name)
	require.False(t, cfg.Cookie.Secure)
	require.Equal(t, 5, cfg.RateLimit.AuthLimit)
	require.Equal(t, 30*time.Second, cfg.RateLimit.AuthWindow)
	require.Equal(t, 3*time.Second, cfg.Timeouts.Service)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "empty.yaml", "env: local\n")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "api-gateway", cfg.Service.Name)
	require.Equal(t, "refresh_token", cfg.Cookie.Name)
	require.Equal(t, "/auth", cfg.Cookie.Path)
	require.True(t, cfg.Cookie.Secure)
	require.Equal(t, 10, cfg.RateLimit.AuthLimit)
	require.Equal(t, time.Minute, cfg.RateLimit.AuthWindow)
	require.Equal(t, 30, cfg.RateLimit.SearchLimit)
	require.Equal(t, "http://localhost:50081", cfg.Upstreams.AuthURL)
}

func TestLoad_WithExplicitPath_FileDoesNotExist(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat failed")
}

func TestLoad_EnvOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	t.Setenv("GATEWAY_SERVICE_NAME", "gw-env")
	t.Setenv("RATE_LIMIT_AUTH", "3")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "gw-env", cfg.Service.Name)
	require.Equal(t, 3, cfg.RateLimit.AuthLimit)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
