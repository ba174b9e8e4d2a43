package models

const (
	MinRating = 1
	MaxRating = 5
)

// RatingRangeMessage is returned to API callers verbatim.
const RatingRangeMessage = "Rating must be between 1 and 5 (inclusive)."

// ValidationError reports a domain rule violation on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateRating checks r against the closed range [MinRating, MaxRating].
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return &ValidationError{Field: "rating", Message: RatingRangeMessage}
	}
	return nil
}
