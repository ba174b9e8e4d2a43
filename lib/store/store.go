package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/icco/lateshow/lib/types"
	"github.com/icco/lateshow/models"
	"gorm.io/gorm"
)

// Store is the access layer over the show database. Every method runs in its
// own transaction, committed on success and rolled back on any error.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DB exposes the connection for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func notFound(err error, kind string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %d: %w", kind, id, err)
}

// ListEpisodes returns every episode in id order.
func (s *Store) ListEpisodes(ctx context.Context) ([]models.Episode, error) {
	var episodes []models.Episode
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Order("id").Find(&episodes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

// GetEpisode loads an episode with its appearances and their guests.
func (s *Store) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	var ep models.Episode
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Appearances", byID).Preload("Appearances.Guest").First(&ep, id).Error
	})
	if err != nil {
		return nil, notFound(err, "episode", id)
	}
	return &ep, nil
}

// CreateEpisode inserts a new episode with no appearances.
func (s *Store) CreateEpisode(ctx context.Context, date string, number int) (*models.Episode, error) {
	ep := models.Episode{Date: date, Number: number}
	if err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&ep).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create episode: %w", err)
	}
	return &ep, nil
}

// DeleteEpisode removes an episode and every appearance on it.
func (s *Store) DeleteEpisode(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var ep models.Episode
		if err := tx.First(&ep, id).Error; err != nil {
			return notFound(err, "episode", id)
		}

		res := tx.Where("episode_id = ?", ep.ID).Delete(&models.Appearance{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete appearances of episode %d: %w", id, res.Error)
		}
		if err := tx.Delete(&ep).Error; err != nil {
			return fmt.Errorf("failed to delete episode %d: %w", id, err)
		}

		s.logger.InfoContext(ctx, "Deleted episode",
			slog.Uint64("episode_id", uint64(id)),
			slog.Int64("appearances", res.RowsAffected))
		return nil
	})
}

// ListGuests returns every guest in id order.
func (s *Store) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Order("id").Find(&guests).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

// GetGuest loads a guest with their appearances and the episodes they were on.
func (s *Store) GetGuest(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Appearances", byID).Preload("Appearances.Episode").First(&g, id).Error
	})
	if err != nil {
		return nil, notFound(err, "guest", id)
	}
	return &g, nil
}

// CreateGuest inserts a new guest with no appearances.
func (s *Store) CreateGuest(ctx context.Context, name, occupation string) (*models.Guest, error) {
	g := models.Guest{Name: name, Occupation: occupation}
	if err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&g).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return &g, nil
}

// DeleteGuest removes a guest and every appearance they made.
func (s *Store) DeleteGuest(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var g models.Guest
		if err := tx.First(&g, id).Error; err != nil {
			return notFound(err, "guest", id)
		}

		res := tx.Where("guest_id = ?", g.ID).Delete(&models.Appearance{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete appearances of guest %d: %w", id, res.Error)
		}
		if err := tx.Delete(&g).Error; err != nil {
			return fmt.Errorf("failed to delete guest %d: %w", id, err)
		}

		s.logger.InfoContext(ctx, "Deleted guest",
			slog.Uint64("guest_id", uint64(id)),
			slog.Int64("appearances", res.RowsAffected))
		return nil
	})
}

// CreateAppearance books a guest on an episode. A bad rating fails with
// *models.ValidationError before the database is touched; a missing episode or
// guest fails with *IntegrityError. Either way nothing is written.
func (s *Store) CreateAppearance(ctx context.Context, rating int, episodeID, guestID uint) (*models.Appearance, error) {
	a, err := models.NewAppearance(rating, episodeID, guestID)
	if err != nil {
		return nil, err
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Preload("Episode").Preload("Guest").First(a, a.ID).Error
	})
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			return nil, verr
		case isForeignKeyViolation(err):
			s.logger.InfoContext(ctx, "Rejected appearance",
				slog.Uint64("episode_id", uint64(episodeID)),
				slog.Uint64("guest_id", uint64(guestID)),
				slog.Any("error", err))
			return nil, &IntegrityError{Err: err}
		default:
			return nil, fmt.Errorf("failed to create appearance: %w", err)
		}
	}
	return a, nil
}

// GetAppearance loads an appearance with its episode and guest.
func (s *Store) GetAppearance(ctx context.Context, id uint) (*models.Appearance, error) {
	var a models.Appearance
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Episode").Preload("Guest").First(&a, id).Error
	})
	if err != nil {
		return nil, notFound(err, "appearance", id)
	}
	return &a, nil
}

// DeleteAppearance removes one appearance; its episode and guest stay.
func (s *Store) DeleteAppearance(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&models.Appearance{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete appearance %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("appearance %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// Stats summarises the table sizes and ratings.
func (s *Store) Stats(ctx context.Context) (types.StatsData, error) {
	var stats types.StatsData
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Episode{}).Count(&stats.TotalEpisodes).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Guest{}).Count(&stats.TotalGuests).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Appearance{}).Count(&stats.TotalAppearances).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Appearance{}).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&stats.AverageRating).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appearance{}).
			Select("rating, COUNT(*) AS count").
			Group("rating").
			Order("rating").
			Scan(&stats.RatingDistribution).Error
	})
	if err != nil {
		return types.StatsData{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
