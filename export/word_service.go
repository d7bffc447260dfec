package export

import (
	"fmt"
	"time"

	goword "github.com/VantageDataChat/GoWord"
	"github.com/VantageDataChat/GoWord/style"
)

// WordExportService produces the linear styled document using GoWord
// (pure Go). It mirrors the PDF's informational content without charts.
type WordExportService struct{}

// NewWordExportService creates a new Word export service.
func NewWordExportService() *WordExportService {
	return &WordExportService{}
}

const wordTableWidth = 9000

// Encode builds the document: title, document info table, HR/productivity/
// financial tables, capped employee table, confidentiality notice.
func (s *WordExportService) Encode(snap *ExportSnapshot, _ map[string]ChartRaster, opts Options) (*Artifact, error) {
	doc := goword.New()
	doc.Properties.Title = "HR Dashboard Report"
	doc.Properties.Creator = "PulseBoard"
	doc.Properties.Description = "Generated by the PulseBoard export pipeline"

	sec := doc.AddSection()

	title := "HR Dashboard Report (Complete)"
	if opts.IsFiltered {
		title = "HR Dashboard Report (Filtered)"
	}
	sec.AddTitle(title, 1)

	sec.AddText(snap.Metadata.ExportedAt,
		&style.FontStyle{Size: 10, Color: "94A3B8"},
		&style.ParagraphStyle{Alignment: style.AlignCenter})
	sec.AddTextBreak(1)

	s.addDocumentInfo(sec, snap)
	s.addLabelValueTable(sec, "HR Metrics", [][2]string{
		{"Total Employees", fmt.Sprintf("%d", snap.SystemMetrics.TotalEmployees)},
		{"Active Employees", fmt.Sprintf("%d", snap.SystemMetrics.ActiveEmployees)},
		{"Inactive Employees", fmt.Sprintf("%d", snap.SystemMetrics.InactiveEmployees)},
		{"Pending Tasks", fmt.Sprintf("%d", snap.SystemMetrics.PendingTasks)},
		{"Completed Tasks", fmt.Sprintf("%d", snap.SystemMetrics.CompletedTasks)},
	})
	s.addLabelValueTable(sec, "Productivity", [][2]string{
		{"Productivity", formatPercent(snap.Performance.Productivity)},
		{"Efficiency", formatPercent(snap.Performance.Efficiency)},
		{"Satisfaction", formatPercent(snap.Performance.Satisfaction)},
		{"Retention", formatPercent(snap.Performance.Retention)},
	})
	s.addLabelValueTable(sec, "Financial Analysis", [][2]string{
		{"Total Debits", formatCurrency(snap.Accounting.Balance.TotalDebits)},
		{"Total Credits", formatCurrency(snap.Accounting.Balance.TotalCredits)},
		{"Net Difference", formatCurrency(snap.Accounting.Balance.NetDifference)},
		{"Monthly Income", formatCurrency(snap.Accounting.CashFlow.MonthlyIncome)},
		{"Monthly Expenses", formatCurrency(snap.Accounting.CashFlow.MonthlyExpenses)},
		{"Monthly Net", formatCurrency(snap.Accounting.CashFlow.MonthlyNet)},
	})
	s.addEmployeeTable(sec, snap, opts)

	// Closing confidentiality notice.
	sec.AddTextBreak(1)
	sec.AddText("This document contains confidential personnel and financial information. Distribution outside the organization is prohibited.",
		&style.FontStyle{Size: 9, Italic: true, Color: "64748B"},
		nil)
	sec.AddText("Generated by PulseBoard",
		&style.FontStyle{Size: 9, Color: "94A3B8"},
		&style.ParagraphStyle{Alignment: style.AlignCenter})

	payload, err := doc.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write Word file: %w", err)
	}

	return &Artifact{
		Payload:  payload,
		FileName: BuildFileName(FormatWord, opts, time.Now()),
		MimeType: MimeType(FormatWord),
	}, nil
}

func (s *WordExportService) addDocumentInfo(sec *goword.Section, snap *ExportSnapshot) {
	s.addLabelValueTable(sec, "Document Information", [][2]string{
		{"Export ID", snap.Metadata.ExportID},
		{"Exported By", snap.Metadata.ExportedBy},
		{"Source", snap.Metadata.SourceLabel},
		{"Environment", snap.Metadata.Environment},
		{"Version", snap.Metadata.Version},
		{"Last Updated", snap.Metadata.LastUpdated},
	})
}

func (s *WordExportService) addLabelValueTable(sec *goword.Section, heading string, rows [][2]string) {
	sec.AddText(heading,
		&style.FontStyle{Bold: true, Size: 14, Color: "1E40AF"},
		nil)

	ts := &style.TableStyle{Width: wordTableWidth, Alignment: "center"}
	ts.SetAllBorders("single", 4, "D9D9D9")
	tbl := sec.AddTable(ts)

	for _, r := range rows {
		row := tbl.AddRow(0, nil)
		row.AddCell(wordTableWidth/2, &style.CellStyle{
			Shading: &style.Shading{Fill: "F8FAFC"},
		}).AddText(r[0], &style.FontStyle{Bold: true, Size: 10}, nil)
		row.AddCell(wordTableWidth/2, nil).AddText(r[1], &style.FontStyle{Size: 10}, nil)
	}
	sec.AddTextBreak(1)
}

// wordEmployeeRows builds the rendered rows plus the trailing note ("" when
// nothing was cut).
func wordEmployeeRows(snap *ExportSnapshot, opts Options) ([][]string, string) {
	limit := effectiveRowCap(WordEmployeeRowCap, opts)
	total := len(snap.Employees)
	shown := total
	if shown > limit {
		shown = limit
	}

	rows := make([][]string, 0, shown)
	for _, emp := range snap.Employees[:shown] {
		rows = append(rows, []string{
			emp.Name,
			emp.Title,
			emp.Department,
			formatCurrency(emp.Salary),
			statusLabel(emp.Active),
		})
	}

	note := ""
	if shown < total {
		note = fmt.Sprintf("Showing first %d of %d employees. See the Excel or CSV export for the full list.", shown, total)
	}
	return rows, note
}

var wordEmployeeHeaders = []string{"Name", "Title", "Department", "Salary", "Status"}

func (s *WordExportService) addEmployeeTable(sec *goword.Section, snap *ExportSnapshot, opts Options) {
	sec.AddText("Employees",
		&style.FontStyle{Bold: true, Size: 14, Color: "1E40AF"},
		nil)

	rows, note := wordEmployeeRows(snap, opts)
	if len(rows) == 0 {
		sec.AddText("No employee records in this export.",
			&style.FontStyle{Size: 10, Italic: true, Color: "64748B"},
			nil)
		sec.AddTextBreak(1)
		return
	}

	colWidth := wordTableWidth / len(wordEmployeeHeaders)
	ts := &style.TableStyle{Width: wordTableWidth, Alignment: "center"}
	ts.SetAllBorders("single", 4, "D9D9D9")
	tbl := sec.AddTable(ts)
	tbl.Grid = make([]int, len(wordEmployeeHeaders))
	for i := range tbl.Grid {
		tbl.Grid[i] = colWidth
	}

	headerRow := tbl.AddRow(0, &style.RowStyle{IsHeader: true})
	for _, h := range wordEmployeeHeaders {
		headerRow.AddCell(colWidth, &style.CellStyle{
			Shading: &style.Shading{Fill: "4472C4"},
		}).AddText(h, &style.FontStyle{Bold: true, Size: 9, Color: "FFFFFF"}, nil)
	}

	for _, r := range rows {
		row := tbl.AddRow(0, nil)
		for _, cell := range r {
			if len([]rune(cell)) > 40 {
				cell = string([]rune(cell)[:37]) + "..."
			}
			row.AddCell(colWidth, nil).AddText(cell, &style.FontStyle{Size: 9}, nil)
		}
	}

	if note != "" {
		sec.AddText(note,
			&style.FontStyle{Size: 9, Color: "94A3B8", Italic: true},
			nil)
	}
	sec.AddTextBreak(1)
}
