package stats

import "github.com/spec-kit/helpdesk-core/internal/domain"

// SatisfactionSummary aggregates rating values over a ticket collection.
// ByValue is zero-filled for every score from 1 to 5.
type SatisfactionSummary struct {
	Rated   int
	Average *float64
	ByValue map[int]int
}

// Satisfaction summarizes ratings across the collection. Unrated tickets
// are ignored; with no ratings at all the average is nil.
func Satisfaction(tickets []domain.Ticket) SatisfactionSummary {
	summary := SatisfactionSummary{
		ByValue: make(map[int]int, domain.RatingMaxValue),
	}
	for v := domain.RatingMinValue; v <= domain.RatingMaxValue; v++ {
		summary.ByValue[v] = 0
	}

	var sum int
	for i := range tickets {
		r := tickets[i].Rating
		if r == nil {
			continue
		}
		summary.Rated++
		summary.ByValue[r.Value]++
		sum += r.Value
	}
	if summary.Rated > 0 {
		avg := float64(sum) / float64(summary.Rated)
		summary.Average = &avg
	}
	return summary
}

// ComplaintStats counts complaints by state.
type ComplaintStats struct {
	Total    int
	Pending  int
	Resolved int
}

// ComplaintSummary tallies a complaint collection for the admin panel.
func ComplaintSummary(complaints []domain.Complaint) ComplaintStats {
	var s ComplaintStats
	for i := range complaints {
		s.Total++
		switch complaints[i].State {
		case domain.ComplaintStatePending:
			s.Pending++
		case domain.ComplaintStateResolved:
			s.Resolved++
		}
	}
	return s
}
