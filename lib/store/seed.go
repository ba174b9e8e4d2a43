package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icco/lateshow/models"
	"gorm.io/gorm"
)

// Reset deletes every row, children first.
func (s *Store) Reset(ctx context.Context) error {
	return s.transaction(ctx, reset)
}

func reset(tx *gorm.DB) error {
	for _, model := range []any{&models.Appearance{}, &models.Episode{}, &models.Guest{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

type seedAppearance struct {
	episode, guest int
	rating         int
}

// Seed replaces the database contents with a small sample lineup.
func (s *Store) Seed(ctx context.Context) error {
	guests := []models.Guest{
		{Name: "Michael J. Fox", Occupation: "actor"},
		{Name: "Sandra Bernhard", Occupation: "Comedian"},
		{Name: "Tracey Ullman", Occupation: "television actress"},
		{Name: "Chris Rock", Occupation: "Comedian"},
	}
	episodes := []models.Episode{
		{Date: "1/11/99", Number: 1},
		{Date: "1/12/99", Number: 2},
		{Date: "1/13/99", Number: 3},
		{Date: "1/14/99", Number: 4},
	}
	lineup := []seedAppearance{
		{episode: 0, guest: 0, rating: 4},
		{episode: 0, guest: 1, rating: 5},
		{episode: 1, guest: 2, rating: 5},
		{episode: 2, guest: 0, rating: 3},
		{episode: 2, guest: 3, rating: 5},
	}

	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := reset(tx); err != nil {
			return err
		}
		if err := tx.Create(&guests).Error; err != nil {
			return fmt.Errorf("failed to create guests: %w", err)
		}
		if err := tx.Create(&episodes).Error; err != nil {
			return fmt.Errorf("failed to create episodes: %w", err)
		}

		for _, l := range lineup {
			a, err := models.NewAppearance(l.rating, episodes[l.episode].ID, guests[l.guest].ID)
			if err != nil {
				return err
			}
			if err := tx.Create(a).Error; err != nil {
				return fmt.Errorf("failed to create appearance: %w", err)
			}
		}

		s.logger.InfoContext(ctx, "Seeding complete",
			slog.Int("guests", len(guests)),
			slog.Int("episodes", len(episodes)),
			slog.Int("appearances", len(lineup)))
		return nil
	})
}
