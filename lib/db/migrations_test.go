package db

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/icco/lateshow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "show.db?_foreign_keys=on&_busy_timeout=5000", dsn("show.db"))
	assert.Equal(t, "file:show.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000", dsn("file:show.db?mode=rwc"))
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gormDB, err := Open(filepath.Join(t.TempDir(), "lateshow_test.db"), logger)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, gormDB, logger))
	// Running twice must be harmless.
	require.NoError(t, RunMigrations(ctx, gormDB, logger))

	m := gormDB.Migrator()
	assert.True(t, m.HasTable(&models.Episode{}))
	assert.True(t, m.HasTable(&models.Guest{}))
	assert.True(t, m.HasTable(&models.Appearance{}))

	// The store relies on SQLite rejecting dangling references.
	err = gormDB.Exec("INSERT INTO appearances (rating, episode_id, guest_id) VALUES (3, 999, 999)").Error
	assert.Error(t, err)

	var count int64
	require.NoError(t, gormDB.Model(&models.Appearance{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRatingCheckConstraint(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gormDB, err := Open(filepath.Join(t.TempDir(), "lateshow_test.db"), logger)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, gormDB, logger))

	ep := models.Episode{Date: "1/11/99", Number: 1}
	guest := models.Guest{Name: "Tracey Ullman", Occupation: "television actress"}
	require.NoError(t, gormDB.Create(&ep).Error)
	require.NoError(t, gormDB.Create(&guest).Error)

	// Raw SQL skips the model hook; the table constraint still holds the line.
	err = gormDB.Exec("INSERT INTO appearances (rating, episode_id, guest_id) VALUES (?, ?, ?)", 6, ep.ID, guest.ID).Error
	assert.Error(t, err)
}
