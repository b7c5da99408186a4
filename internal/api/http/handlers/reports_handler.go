package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/observability"
	"github.com/spec-kit/helpdesk-core/internal/service"
	"github.com/spec-kit/helpdesk-core/internal/stats"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// ReportsHandler serves aggregated metrics and report exports.
type ReportsHandler struct {
	reports *service.ReportService
	metrics *observability.Metrics
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService, metrics *observability.Metrics) *ReportsHandler {
	return &ReportsHandler{reports: reportService, metrics: metrics}
}

// Stats GET /stats.
func (h *ReportsHandler) Stats(c *fiber.Ctx) error {
	req, err := parseAggregationQuery(c)
	if err != nil {
		return err
	}
	metrics, err := h.reports.Metrics(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// Dashboard GET /stats/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	metrics, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// Satisfaction GET /stats/satisfaction.
func (h *ReportsHandler) Satisfaction(c *fiber.Ctx) error {
	summary, err := h.reports.Satisfaction(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// ComplaintStats GET /stats/complaints.
func (h *ReportsHandler) ComplaintStats(c *fiber.Ctx) error {
	summary, err := h.reports.Complaints(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /reports/export renders the filtered report as a download.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	req, err := parseAggregationQuery(c)
	if err != nil {
		return err
	}

	var (
		payload  []byte
		filename string
	)
	switch format := c.Query("format", "csv"); format {
	case "csv":
		payload, filename, err = h.reports.ExportCSV(c.UserContext(), req)
		c.Set("Content-Type", "text/csv")
	case "xlsx":
		payload, filename, err = h.reports.ExportXLSX(c.UserContext(), req)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		return util.NewInvalidInput("unsupported format "+format, nil)
	}
	if err != nil {
		return err
	}

	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}

// Diagnostics GET /diagnostics exposes in-process counters.
func (h *ReportsHandler) Diagnostics(c *fiber.Ctx) error {
	requests, errs, transitions := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"requests":    requests,
		"errors":      errs,
		"transitions": transitions,
	}})
}

func parseAggregationQuery(c *fiber.Ctx) (stats.AggregationRequest, error) {
	req := stats.AggregationRequest{
		Window: stats.TimeWindow{Preset: stats.WindowPreset(c.Query("preset"))},
		Search: c.Query("search"),
	}

	if raw := c.Query("state"); raw != "" {
		state := domain.TicketState(raw)
		req.State = &state
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		req.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" {
		category := domain.TicketCategory(raw)
		req.Category = &category
	}
	if raw := c.Query("technician_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, util.NewInvalidInput("invalid technician_id", nil)
		}
		req.TechnicianID = &id
	}
	if raw := c.Query("creator_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, util.NewInvalidInput("invalid creator_id", nil)
		}
		req.CreatorID = &id
	}

	var err error
	if req.Window.Start, err = parseDateQuery(c.Query("from"), false); err != nil {
		return req, err
	}
	// The window resolver extends bare end dates itself.
	if raw := c.Query("to"); raw != "" {
		if req.Window.End, err = parseDateQuery(raw, false); err != nil {
			return req, err
		}
		if len(raw) == len("2006-01-02") {
			req.Window.EndIsDate = true
		}
	}
	return req, nil
}
