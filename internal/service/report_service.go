package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/cache"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/gateway"
	"github.com/spec-kit/helpdesk-core/internal/report"
	"github.com/spec-kit/helpdesk-core/internal/stats"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// ReportService computes aggregated metrics and builds exportable reports
// over the gateway's ticket set. Metric reads go through the Redis cache;
// report builds always recompute so the embedded ticket rows are current.
type ReportService struct {
	gw     gateway.TicketGateway
	cache  *cache.MetricsCache
	logger *zap.Logger
	clock  func() time.Time
}

// NewReportService constructs the service.
func NewReportService(gw gateway.TicketGateway, metricsCache *cache.MetricsCache, logger *zap.Logger) *ReportService {
	return &ReportService{gw: gw, cache: metricsCache, logger: logger, clock: time.Now}
}

// WithClock fixes the time source, for deterministic preset resolution.
func (s *ReportService) WithClock(clock func() time.Time) *ReportService {
	s.clock = clock
	return s
}

// Metrics computes aggregated metrics for the request, serving from cache
// when a fresh entry exists.
func (s *ReportService) Metrics(ctx context.Context, req stats.AggregationRequest) (*stats.Metrics, error) {
	now := s.clock()
	key := cache.Key(req, now)

	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("metrics cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	tickets, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	metrics := stats.Aggregate(tickets, req, now)

	if err := s.cache.Set(ctx, key, &metrics); err != nil {
		s.logger.Warn("metrics cache write failed", zap.Error(err))
	}
	return &metrics, nil
}

// Dashboard returns the precomputed all-tickets snapshot, recomputing on
// a cache miss.
func (s *ReportService) Dashboard(ctx context.Context) (*stats.Metrics, error) {
	if cached, err := s.cache.GetDashboard(ctx); err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}
	return s.RefreshDashboard(ctx)
}

// RefreshDashboard recomputes the unfiltered snapshot and stores it.
func (s *ReportService) RefreshDashboard(ctx context.Context) (*stats.Metrics, error) {
	tickets, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	metrics := stats.Aggregate(tickets, stats.AggregationRequest{}, s.clock())
	if err := s.cache.SetDashboard(ctx, &metrics); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return &metrics, nil
}

// BuildReport assembles a report with the filtered ticket rows embedded.
func (s *ReportService) BuildReport(ctx context.Context, req stats.AggregationRequest) (*report.Report, error) {
	tickets, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	r := report.Build(tickets, req, s.clock())
	return &r, nil
}

// ExportCSV builds a report and renders it as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, req stats.AggregationRequest) ([]byte, string, error) {
	r, err := s.BuildReport(ctx, req)
	if err != nil {
		return nil, "", err
	}
	return report.ExportCSV(*r)
}

// ExportXLSX builds a report and renders it as a spreadsheet.
func (s *ReportService) ExportXLSX(ctx context.Context, req stats.AggregationRequest) ([]byte, string, error) {
	r, err := s.BuildReport(ctx, req)
	if err != nil {
		return nil, "", err
	}
	return report.ExportXLSX(*r)
}

// Satisfaction summarizes ratings over all tickets.
func (s *ReportService) Satisfaction(ctx context.Context) (*stats.SatisfactionSummary, error) {
	tickets, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	summary := stats.Satisfaction(tickets)
	return &summary, nil
}

// Complaints summarizes complaint volume by state.
func (s *ReportService) Complaints(ctx context.Context) (*stats.ComplaintStats, error) {
	complaints, err := s.gw.FetchComplaints(ctx, gateway.ComplaintFilter{})
	if err != nil {
		return nil, util.MapError(err)
	}
	summary := stats.ComplaintSummary(complaints)
	return &summary, nil
}

func (s *ReportService) fetchAll(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.gw.FetchTickets(ctx, gateway.TicketFilter{})
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}
