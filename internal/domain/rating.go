package domain

import "time"

const (
	RatingMinValue      = 1
	RatingMaxValue      = 5
	RatingCommentMaxLen = 500
)

// Rating is a creator's satisfaction score for a resolved ticket. A ticket
// owns at most one rating and it never changes once set.
type Rating struct {
	Value     int
	Comment   string
	CreatedAt time.Time
}

// Validate checks value range and comment length.
func (r *Rating) Validate() error {
	if r.Value < RatingMinValue || r.Value > RatingMaxValue {
		return errRatingValue(r.Value)
	}
	if len(r.Comment) > RatingCommentMaxLen {
		return errRatingComment(len(r.Comment))
	}
	return nil
}
