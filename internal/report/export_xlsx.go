package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

const (
	summarySheet = "Summary"
	detailSheet  = "Tickets"
)

// ExportXLSX renders the report as a spreadsheet: a summary sheet with the
// headline metrics and per-state/per-priority breakdowns, plus a ticket
// detail sheet.
func ExportXLSX(r Report) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	if err := writeSummary(f, r, headerStyle); err != nil {
		return nil, "", err
	}
	if err := writeDetail(f, r, headerStyle); err != nil {
		return nil, "", err
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ticket_report_%s.xlsx", r.GeneratedAt.Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func writeSummary(f *excelize.File, r Report, headerStyle int) error {
	row := 1
	set := func(values ...any) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(summarySheet, cell, v)
		}
		row++
	}
	header := func(values ...any) {
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(values), row)
		_ = f.SetCellStyle(summarySheet, start, end, headerStyle)
		set(values...)
	}

	header("Ticket Report")
	set("Generated at", r.GeneratedAt.Format(timestampLayout))
	row++

	header("Metric", "Value")
	set("Total tickets", r.Metrics.Total)
	set("Resolution rate", fmt.Sprintf("%.1f%%", r.Metrics.ResolutionRateFraction*100))
	if r.Metrics.AverageResolutionHours != nil {
		set("Average resolution time", fmt.Sprintf("%.1fh", *r.Metrics.AverageResolutionHours))
	} else {
		set("Average resolution time", "N/A")
	}
	row++

	header("State", "Count", "Share")
	for _, state := range domain.AllTicketStates {
		count := r.Metrics.ByState[state]
		set(string(state), count, share(count, r.Metrics.Total))
	}
	row++

	header("Priority", "Count", "Share")
	for _, p := range domain.AllTicketPriorities {
		count := r.Metrics.ByPriority[p]
		set(string(p), count, share(count, r.Metrics.Total))
	}
	row++

	header("Category", "Count")
	for _, c := range domain.AllTicketCategories {
		set(string(c), r.Metrics.ByCategory[c])
	}

	return nil
}

func writeDetail(f *excelize.File, r Report, headerStyle int) error {
	for i, col := range detailHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(detailSheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(detailSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx := range r.Tickets {
		values := detailRow(&r.Tickets[rowIdx])
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(detailSheet, cell, v); err != nil {
				return err
			}
		}
	}

	for i := range detailHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(detailSheet, col, col, 18); err != nil {
			return err
		}
	}
	return nil
}

func share(count, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}
