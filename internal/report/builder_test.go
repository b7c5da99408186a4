package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/stats"
)

var now = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func sampleTickets() []domain.Ticket {
	techID := int64(3)
	solution := "Replaced the toner cartridge"
	resolvedAt := now.Add(-time.Hour)
	return []domain.Ticket{
		{
			ID: 1, Title: "Printer out of toner", Description: "Second floor printer prints blank pages",
			Category: domain.CategoryPrinters, CreatorID: 7, State: domain.TicketStateResolved,
			Priority: domain.TicketPriorityLow, TechnicianID: &techID, Solution: &solution,
			CreatedAt: now.Add(-26 * time.Hour), ResolvedAt: &resolvedAt,
			Rating: &domain.Rating{Value: 5, CreatedAt: now},
		},
		{
			ID: 2, Title: "Email client crashes", Description: "Crashes when opening large attachments",
			Category: domain.CategorySoftware, CreatorID: 8, State: domain.TicketStateOpen,
			Priority: domain.TicketPriorityMedium, CreatedAt: now.Add(-3 * time.Hour),
		},
	}
}

func TestBuildSnapshot(t *testing.T) {
	tickets := sampleTickets()
	r := Build(tickets, stats.AggregationRequest{}, now)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, now, r.GeneratedAt)
	require.Len(t, r.Tickets, 2)
	assert.Equal(t, 2, r.Metrics.Total)

	// The report holds copies, not aliases into the caller's slice.
	*r.Tickets[0].Solution = "mutated"
	require.NotNil(t, tickets[0].Solution)
	assert.Equal(t, "Replaced the toner cartridge", *tickets[0].Solution)
}

func TestBuildAppliesFilter(t *testing.T) {
	state := domain.TicketStateOpen
	r := Build(sampleTickets(), stats.AggregationRequest{State: &state}, now)

	require.Len(t, r.Tickets, 1)
	assert.Equal(t, int64(2), r.Tickets[0].ID)
	assert.Equal(t, 1, r.Metrics.Total)
	assert.Equal(t, 1, r.Metrics.ByState[domain.TicketStateOpen])
	assert.Equal(t, 0, r.Metrics.ByState[domain.TicketStateResolved])
}

func TestExportCSV(t *testing.T) {
	r := Build(sampleTickets(), stats.AggregationRequest{}, now)
	payload, filename, err := ExportCSV(r)
	require.NoError(t, err)
	assert.Equal(t, "ticket_report_20240515_100000.csv", filename)

	rows, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, detailHeader, rows[0])

	first := rows[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "Printer out of toner", first[1])
	assert.Equal(t, "PRINTERS", first[3])
	assert.Equal(t, "RESOLVED", first[4])
	assert.Equal(t, "3", first[7])
	assert.Equal(t, "5", first[12])

	second := rows[2]
	assert.Equal(t, "", second[7], "unassigned technician renders empty")
	assert.Equal(t, "", second[12], "unrated ticket renders empty")
}

func TestExportCSVEmptyReport(t *testing.T) {
	r := Build(nil, stats.AggregationRequest{}, now)
	payload, _, err := ExportCSV(r)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestExportXLSX(t *testing.T) {
	r := Build(sampleTickets(), stats.AggregationRequest{}, now)
	payload, filename, err := ExportXLSX(r)
	require.NoError(t, err)
	assert.Equal(t, "ticket_report_20240515_100000.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Tickets")

	rows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, detailHeader, rows[0])
	assert.Equal(t, "Printer out of toner", rows[1][1])
}
