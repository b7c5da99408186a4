package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

var detailHeader = []string{
	"id", "title", "description", "category", "state", "priority",
	"creator_id", "technician_id", "created_at", "assigned_at",
	"resolved_at", "closed_at", "rating",
}

// ExportCSV renders the report's ticket detail as CSV. The filename embeds
// the generation date.
func ExportCSV(r Report) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(detailHeader); err != nil {
		return nil, "", err
	}
	for i := range r.Tickets {
		if err := writer.Write(detailRow(&r.Tickets[i])); err != nil {
			return nil, "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ticket_report_%s.csv", r.GeneratedAt.Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func detailRow(t *domain.Ticket) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Title,
		t.Description,
		string(t.Category),
		string(t.State),
		string(t.Priority),
		strconv.FormatInt(t.CreatorID, 10),
		formatID(t.TechnicianID),
		t.CreatedAt.Format(timestampLayout),
		formatTime(t.AssignedAt),
		formatTime(t.ResolvedAt),
		formatTime(t.ClosedAt),
		formatRating(t.Rating),
	}
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}

func formatRating(r *domain.Rating) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(r.Value)
}
