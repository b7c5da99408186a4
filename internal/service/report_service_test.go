package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/stats"
)

func newReportTestService(gw *fakeGateway) *ReportService {
	return NewReportService(gw, nil, zap.NewNop()).
		WithClock(func() time.Time { return serviceTime })
}

func TestReportMetrics(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateOpen)
	seedTicket(gw, domain.TicketStateResolved)
	seedTicket(gw, domain.TicketStateClosed, func(tk *domain.Ticket) {
		closed := serviceTime.Add(-time.Hour)
		tk.ClosedAt = &closed
	})
	svc := newReportTestService(gw)

	m, err := svc.Metrics(context.Background(), stats.AggregationRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 1, m.ByState[domain.TicketStateOpen])
	assert.Equal(t, 1, m.ByState[domain.TicketStateResolved])
	assert.Equal(t, 1, m.ByState[domain.TicketStateClosed])
	assert.Zero(t, m.ByState[domain.TicketStateCancelled])
	assert.InDelta(t, 2.0/3.0, m.ResolutionRateFraction, 1e-9)
}

func TestReportMetricsAppliesWindow(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateOpen)
	seedTicket(gw, domain.TicketStateOpen, func(tk *domain.Ticket) {
		tk.CreatedAt = serviceTime.AddDate(0, -3, 0)
	})
	svc := newReportTestService(gw)

	m, err := svc.Metrics(context.Background(), stats.AggregationRequest{
		Window: stats.TimeWindow{Preset: stats.Preset30Days},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Total)
}

func TestDashboardRefresh(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateOpen)
	svc := newReportTestService(gw)
	ctx := context.Background()

	snapshot, err := svc.RefreshDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Total)

	// Without a cache every dashboard read recomputes from the gateway.
	seedTicket(gw, domain.TicketStateOpen)
	fresh, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Total)
}

func TestBuildReportEmbedsFilteredTickets(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateResolved)
	seedTicket(gw, domain.TicketStateOpen, func(tk *domain.Ticket) {
		tk.Category = domain.CategorySoftware
	})
	svc := newReportTestService(gw)

	hardware := domain.CategoryHardware
	r, err := svc.BuildReport(context.Background(), stats.AggregationRequest{Category: &hardware})
	require.NoError(t, err)

	assert.Equal(t, serviceTime, r.GeneratedAt)
	require.Len(t, r.Tickets, 1)
	assert.Equal(t, domain.CategoryHardware, r.Tickets[0].Category)
	assert.Equal(t, 1, r.Metrics.Total)
}

func TestExportCSVFilename(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateOpen)
	svc := newReportTestService(gw)

	data, filename, err := svc.ExportCSV(context.Background(), stats.AggregationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ticket_report_20240515_100000.csv", filename)
	assert.True(t, strings.HasPrefix(string(data), "id,"))
}

func TestExportXLSXFilename(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateOpen)
	svc := newReportTestService(gw)

	data, filename, err := svc.ExportXLSX(context.Background(), stats.AggregationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ticket_report_20240515_100000.xlsx", filename)
	assert.NotEmpty(t, data)
}

func TestSatisfactionSummary(t *testing.T) {
	gw := newFakeGateway()
	seedTicket(gw, domain.TicketStateResolved, func(tk *domain.Ticket) {
		tk.Rating = &domain.Rating{Value: 4, CreatedAt: serviceTime}
	})
	seedTicket(gw, domain.TicketStateResolved)
	svc := newReportTestService(gw)

	summary, err := svc.Satisfaction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rated)
	require.NotNil(t, summary.Average)
	assert.InDelta(t, 4.0, *summary.Average, 1e-9)
	assert.Equal(t, 1, summary.ByValue[4])
	assert.Zero(t, summary.ByValue[1])
}

func TestComplaintSummaryCounts(t *testing.T) {
	gw := newFakeGateway()
	gw.complaints[1] = &domain.Complaint{ID: 1, State: domain.ComplaintStatePending}
	gw.complaints[2] = &domain.Complaint{ID: 2, State: domain.ComplaintStateResolved}
	gw.complaints[3] = &domain.Complaint{ID: 3, State: domain.ComplaintStateResolved}
	svc := newReportTestService(gw)

	s, err := svc.Complaints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 2, s.Resolved)
}
