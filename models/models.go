package models

import (
	"gorm.io/gorm"
)

// Episode is a single show taping. Deleting an episode deletes its appearances.
type Episode struct {
	ID          uint   `gorm:"primaryKey"`
	Date        string // free form, e.g. "1/11/99"
	Number      int
	Appearances []Appearance `gorm:"constraint:OnDelete:CASCADE"`
}

func (Episode) TableName() string { return "episodes" }

// Guests returns the guest of every loaded appearance, in appearance order.
// It mirrors Appearances one-to-one, so a guest booked twice shows up twice.
func (e *Episode) Guests() []Guest {
	guests := make([]Guest, 0, len(e.Appearances))
	for _, a := range e.Appearances {
		if a.Guest != nil {
			guests = append(guests, *a.Guest)
		}
	}
	return guests
}

// Guest is someone who appeared on the show. Deleting a guest deletes their appearances.
type Guest struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Occupation  string
	Appearances []Appearance `gorm:"constraint:OnDelete:CASCADE"`
}

func (Guest) TableName() string { return "guests" }

// Episodes returns the episode of every loaded appearance, in appearance order.
func (g *Guest) Episodes() []Episode {
	episodes := make([]Episode, 0, len(g.Appearances))
	for _, a := range g.Appearances {
		if a.Episode != nil {
			episodes = append(episodes, *a.Episode)
		}
	}
	return episodes
}

// Appearance links a guest to an episode and carries the guest's rating.
type Appearance struct {
	ID        uint `gorm:"primaryKey"`
	Rating    int  `gorm:"not null;check:chk_appearances_rating,rating >= 1 AND rating <= 5"`
	EpisodeID uint `gorm:"not null;index"`
	GuestID   uint `gorm:"not null;index"`
	Episode   *Episode
	Guest     *Guest
}

func (Appearance) TableName() string { return "appearances" }

// NewAppearance builds an unsaved appearance, rejecting ratings outside 1..5.
func NewAppearance(rating int, episodeID, guestID uint) (*Appearance, error) {
	a := &Appearance{EpisodeID: episodeID, GuestID: guestID}
	if err := a.SetRating(rating); err != nil {
		return nil, err
	}
	return a, nil
}

// SetRating assigns the rating only if it is valid; on error the appearance is unchanged.
func (a *Appearance) SetRating(rating int) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	a.Rating = rating
	return nil
}

// BeforeSave re-checks the rating at flush time so a struct literal with a bad
// rating can't reach the table either.
func (a *Appearance) BeforeSave(tx *gorm.DB) error {
	return ValidateRating(a.Rating)
}
