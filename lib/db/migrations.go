package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/icco/lateshow/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the SQLite database at path. Foreign keys are switched on
// through the DSN so every pooled connection enforces them, not just the first.
func Open(path string, logger *slog.Logger) (*gorm.DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:         NewGormLogger(logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return gormDB, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// RunMigrations runs all database migrations
func RunMigrations(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	if err := enableSQLiteOptimizations(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to enable SQLite optimizations: %w", err)
	}

	// appearances references both parents, so it has to come last.
	if err := db.WithContext(ctx).AutoMigrate(&models.Episode{}, &models.Guest{}, &models.Appearance{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := createAdditionalIndexes(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to create additional indexes: %w", err)
	}

	return checkForeignKeys(ctx, db, logger)
}

// enableSQLiteOptimizations enables SQLite-specific optimizations
func enableSQLiteOptimizations(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	optimizations := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range optimizations {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			logger.WarnContext(ctx, "Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
		} else {
			logger.DebugContext(ctx, "Executed pragma", slog.String("pragma", pragma))
		}
	}

	return nil
}

// createAdditionalIndexes creates indexes gorm tags can't express.
func createAdditionalIndexes(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	additionalIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_appearances_episode_guest ON appearances(episode_id, guest_id)",
		"CREATE INDEX IF NOT EXISTS idx_episodes_number ON episodes(number)",
	}

	for _, indexSQL := range additionalIndexes {
		if err := db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		logger.DebugContext(ctx, "Created index", slog.String("sql", indexSQL))
	}

	return nil
}

// checkForeignKeys fails loudly when the driver ignored the foreign_keys
// setting; without it appearances could point at deleted rows.
func checkForeignKeys(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	var enabled int
	if err := db.WithContext(ctx).Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		return fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("foreign key enforcement is disabled")
	}
	logger.InfoContext(ctx, "Database ready", slog.Bool("foreign_keys", true))
	return nil
}
