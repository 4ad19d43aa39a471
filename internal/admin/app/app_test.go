package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		DatabaseFile:         filepath.Join(dir, "db", "admin.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SessionKeyFile:       filepath.Join(dir, "session.key"),
		SessionTTL:           time.Hour,
		SessionIssuer:        "backoffice-test",
		BootstrapEmail:       "admin@example.com",
		BootstrapPassword:    "correct-horse-battery",
		LoginRateLimit:       httpx.StrictLimit,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "json",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestNewServesProbesAndShutsDown(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)

	for _, path := range []string{cfg.DatabaseFile, cfg.PepperFile, cfg.SessionKeyFile} {
		_, err := os.Stat(path)
		require.NoError(t, err, path)
	}

	for _, path := range []string{"/livez", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	require.NoError(t, app.Shutdown())
}

func TestNewReusesSessionKey(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Shutdown())
	key, err := os.ReadFile(cfg.SessionKeyFile)
	require.NoError(t, err)

	second, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, second.Shutdown())
	again, err := os.ReadFile(cfg.SessionKeyFile)
	require.NoError(t, err)

	require.Equal(t, key, again)
}

func TestNewRejectsHalfBootstrap(t *testing.T) {
	cfg := testConfig(t)
	cfg.BootstrapPassword = ""

	_, err := New(cfg)
	require.Error(t, err)
}

func TestNewRejectsBadTrustedProxies(t *testing.T) {
	cfg := testConfig(t)
	cfg.TrustedProxies = "10.0.0.0/8,proxy.internal"

	_, err := New(cfg)
	require.ErrorContains(t, err, "TRUSTED_PROXIES")
}
