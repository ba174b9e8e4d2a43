package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"
)

// Health represents the health check response structure.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DB        struct {
		Status      string `json:"status"`
		ForeignKeys bool   `json:"foreign_keys"`
		Message     string `json:"message,omitempty"`
	} `json:"db"`
}

// Check returns an HTTP handler that pings the database and confirms foreign
// key enforcement is on.
func Check(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := Health{
			Status:    "ok",
			Timestamp: time.Now(),
		}

		sqlDB, err := db.DB()
		if err != nil {
			degrade(w, health, "Failed to get database connection")
			return
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			degrade(w, health, "Database ping failed")
			return
		}

		var fk int
		if err := db.WithContext(ctx).Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
			degrade(w, health, "Failed to read foreign_keys pragma")
			return
		}
		health.DB.ForeignKeys = fk == 1
		if !health.DB.ForeignKeys {
			degrade(w, health, "Foreign key enforcement is off")
			return
		}

		health.DB.Status = "ok"
		writeHealth(w, health, http.StatusOK)
	}
}

func degrade(w http.ResponseWriter, health Health, message string) {
	health.Status = "degraded"
	health.DB.Status = "error"
	health.DB.Message = message
	slog.Warn("Health check failed", slog.String("reason", message))
	writeHealth(w, health, http.StatusServiceUnavailable)
}

// writeHealth writes the health check response to the HTTP response writer.
func writeHealth(w http.ResponseWriter, health Health, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		slog.Error("Failed to encode health response", slog.Any("error", err))
	}
}
