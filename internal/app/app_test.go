package app_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppPort:         ":0",
		LogLevel:        "error",
		StoreDriver:     config.StoreMemory,
		JWTSecret:       "app-test-secret",
		TokenTTL:        time.Hour,
		EventsDriver:    config.EventsNone,
		SearchIndex:     "products",
		UploadDir:       filepath.Join(t.TempDir(), "images"),
		MaxUploadImages: 5,
		BodyLimit:       4 * 1024 * 1024,
	}
}

func newApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_Health(t *testing.T) {
	a := newApp(t, testConfig(t))

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.StoreMemory, body["store"])
	assert.Equal(t, false, body["search"])
}

func TestNew_UnknownRouteUsesEnvelope(t *testing.T) {
	a := newApp(t, testConfig(t))

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nothing/here", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "errors")
	assert.Contains(t, body, "message")
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
}

func TestNew_ServesUploadedImages(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(t, cfg)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir, "cat.png"), []byte("meow"), 0o644))

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/images/cat.png", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "meow", string(body))
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = config.StoreSQLite
	cfg.DatabaseDSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	a := newApp(t, cfg)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/product/display/latest", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_UnreachableStoreFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = config.StorePostgres
	cfg.DatabaseDSN = "host=127.0.0.1 port=1 user=nobody dbname=nothing sslmode=disable connect_timeout=1"

	_, err := app.New(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	assert.Error(t, err)
}
