package health

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/icco/lateshow/lib/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gormDB, err := db.Open(filepath.Join(t.TempDir(), "health.db"), logger)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background(), gormDB, logger))

	w := httptest.NewRecorder()
	Check(gormDB)(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var h Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "ok", h.DB.Status)
	assert.True(t, h.DB.ForeignKeys)
}

func TestCheckClosedDatabase(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gormDB, err := db.Open(filepath.Join(t.TempDir(), "health.db"), logger)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := httptest.NewRecorder()
	Check(gormDB)(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var h Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	assert.Equal(t, "degraded", h.Status)
	assert.Equal(t, "Database ping failed", h.DB.Message)
}
