package types

// StatsData represents statistics about the show database.
type StatsData struct {
	TotalEpisodes      int64   `json:"total_episodes"`
	TotalGuests        int64   `json:"total_guests"`
	TotalAppearances   int64   `json:"total_appearances"`
	AverageRating      float64 `json:"average_rating"`
	RatingDistribution []struct {
		Rating int   `json:"rating"`
		Count  int64 `json:"count"`
	} `json:"rating_distribution"`
}
