package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDF palette.
var (
	pdfBlue  = &props.Color{Red: 59, Green: 130, Blue: 246}
	pdfNavy  = &props.Color{Red: 30, Green: 64, Blue: 175}
	pdfSlate = &props.Color{Red: 100, Green: 116, Blue: 139}
	pdfMuted = &props.Color{Red: 148, Green: 163, Blue: 184}
	pdfGreen = &props.Color{Red: 22, Green: 163, Blue: 74}
	pdfRed   = &props.Color{Red: 220, Green: 38, Blue: 38}
)

// Cell text length cap on the employee table.
const pdfCellTextCap = 30

// PDFExportService produces the paginated report using maroto. The built-in
// Latin fonts cannot render arbitrary Unicode, so every free-text value goes
// through sanitizeText before it reaches the page.
type PDFExportService struct{}

// NewPDFExportService creates a new PDF export service.
func NewPDFExportService() *PDFExportService {
	return &PDFExportService{}
}

// Encode renders the report with its fixed section order: cover, document
// info, executive summary, HR metrics, productivity, charts, financial
// analysis, employee table, optional sections, optional applied filters.
func (s *PDFExportService) Encode(snap *ExportSnapshot, charts map[string]ChartRaster, opts Options) (*Artifact, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithDefaultFont(&props.Font{Family: fontfamily.Arial, Size: 10}).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(s.footerRow(snap)); err != nil {
		return nil, fmt.Errorf("failed to register footer: %w", err)
	}

	s.addCover(m, snap, opts)
	s.addDocumentInfo(m, snap)
	s.addExecutiveSummary(m, snap)
	s.addHRMetrics(m, snap)
	s.addProductivity(m, snap)
	s.addCharts(m, charts)
	s.addFinancialAnalysis(m, snap)
	s.addEmployeeTable(m, snap, opts)
	s.addOptionalSections(m, snap)
	if opts.IsFiltered {
		s.addAppliedFilters(m, opts.ActiveFilters)
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return &Artifact{
		Payload:  document.GetBytes(),
		FileName: BuildFileName(FormatPDF, opts, time.Now()),
		MimeType: MimeType(FormatPDF),
	}, nil
}

func (s *PDFExportService) footerRow(snap *ExportSnapshot) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Generated %s by PulseBoard", sanitizeText(snap.Metadata.ExportedAt, 60)), props.Text{
				Size:  8,
				Align: align.Center,
				Color: pdfMuted,
			}),
		),
	)
}

func (s *PDFExportService) sectionTitle(m core.Maroto, title string) {
	m.AddRow(10,
		col.New(12).Add(
			text.New(title, props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Color: pdfNavy,
			}),
		),
	)
}

// labelValueRow renders one two-column table row.
func (s *PDFExportService) labelValueRow(m core.Maroto, label, value string) {
	m.AddRow(7,
		col.New(5).Add(
			text.New(sanitizeText(label, 60), props.Text{Size: 9, Style: fontstyle.Bold}),
		),
		col.New(7).Add(
			text.New(sanitizeText(value, 90), props.Text{Size: 9}),
		),
	)
}

func (s *PDFExportService) addCover(m core.Maroto, snap *ExportSnapshot, opts Options) {
	title := "HR Dashboard Report (Complete)"
	if opts.IsFiltered {
		title = "HR Dashboard Report (Filtered)"
	}

	m.AddRow(20,
		col.New(12).Add(
			text.New(title, props.Text{
				Size:  20,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: pdfBlue,
			}),
		),
	)
	m.AddRow(8,
		col.New(12).Add(
			text.New(sanitizeText(snap.Configuration.CompanyName, 80), props.Text{
				Size:  11,
				Align: align.Center,
				Color: pdfSlate,
			}),
		),
	)
	m.AddRow(6,
		col.New(12).Add(
			text.New(fmt.Sprintf("Exported %s", sanitizeText(snap.Metadata.ExportedAt, 40)), props.Text{
				Size:  9,
				Align: align.Center,
				Color: pdfSlate,
			}),
		),
	)
	m.AddRow(5)
}

func (s *PDFExportService) addDocumentInfo(m core.Maroto, snap *ExportSnapshot) {
	s.sectionTitle(m, "Document Information")
	s.labelValueRow(m, "Export ID", snap.Metadata.ExportID)
	s.labelValueRow(m, "Exported By", snap.Metadata.ExportedBy)
	s.labelValueRow(m, "Source", snap.Metadata.SourceLabel)
	s.labelValueRow(m, "Environment", snap.Metadata.Environment)
	s.labelValueRow(m, "Version", snap.Metadata.Version)
	s.labelValueRow(m, "Timezone", snap.Metadata.SystemInfo.Timezone)
	s.labelValueRow(m, "Last Updated", snap.Metadata.LastUpdated)
	m.AddRow(5)
}

func (s *PDFExportService) addExecutiveSummary(m core.Maroto, snap *ExportSnapshot) {
	s.sectionTitle(m, "Executive Summary")
	s.labelValueRow(m, "Total Records Exported", fmt.Sprintf("%d", snap.ExportStats.TotalRecordsExported))
	s.labelValueRow(m, "Data Sections", fmt.Sprintf("%d", len(snap.ExportStats.DataTypes)))
	s.labelValueRow(m, "Total Employees", fmt.Sprintf("%d", snap.SystemMetrics.TotalEmployees))
	s.labelValueRow(m, "Net Balance", formatCurrency(snap.Accounting.Balance.NetDifference))
	m.AddRow(5)
}

func (s *PDFExportService) addHRMetrics(m core.Maroto, snap *ExportSnapshot) {
	s.sectionTitle(m, "HR Metrics")
	s.labelValueRow(m, "Active Employees", fmt.Sprintf("%d", snap.SystemMetrics.ActiveEmployees))
	s.labelValueRow(m, "Inactive Employees", fmt.Sprintf("%d", snap.SystemMetrics.InactiveEmployees))
	s.labelValueRow(m, "Pending Tasks", fmt.Sprintf("%d", snap.SystemMetrics.PendingTasks))
	s.labelValueRow(m, "Completed Tasks", fmt.Sprintf("%d", snap.SystemMetrics.CompletedTasks))
	s.labelValueRow(m, "Monthly Payroll Records", fmt.Sprintf("%d", snap.Payroll.MonthlyRecords))
	s.labelValueRow(m, "Average Salary", formatCurrency(snap.Payroll.AverageSalary))
	m.AddRow(5)
}

func (s *PDFExportService) addProductivity(m core.Maroto, snap *ExportSnapshot) {
	s.sectionTitle(m, "Productivity")
	s.labelValueRow(m, "Productivity", formatPercent(snap.Performance.Productivity))
	s.labelValueRow(m, "Efficiency", formatPercent(snap.Performance.Efficiency))
	s.labelValueRow(m, "Satisfaction", formatPercent(snap.Performance.Satisfaction))
	s.labelValueRow(m, "Retention", formatPercent(snap.Performance.Retention))
	m.AddRow(5)
}

func (s *PDFExportService) addCharts(m core.Maroto, charts map[string]ChartRaster) {
	s.sectionTitle(m, "Charts")

	embeddable := embeddableCharts(charts)
	if len(embeddable) == 0 {
		m.AddRow(8,
			col.New(12).Add(
				text.New("No charts were captured for this export.", props.Text{
					Size:  9,
					Style: fontstyle.Italic,
					Color: pdfSlate,
				}),
			),
		)
		m.AddRow(5)
		return
	}

	for _, raster := range embeddable {
		caption := fmt.Sprintf("%s (%s, %d series)",
			sanitizeText(raster.Title, 60), sanitizeText(raster.ChartType, 20), raster.DatasetCount)
		m.AddRow(6,
			col.New(12).Add(
				text.New(caption, props.Text{Size: 10, Style: fontstyle.Bold}),
			),
		)
		m.AddRow(80,
			col.New(12).Add(
				image.NewFromBytes(raster.ImageData, extension.Png),
			),
		)
		m.AddRow(5)
	}
}

func (s *PDFExportService) addFinancialAnalysis(m core.Maroto, snap *ExportSnapshot) {
	s.sectionTitle(m, "Financial Analysis")
	s.labelValueRow(m, "Total Debits", formatCurrency(snap.Accounting.Balance.TotalDebits))
	s.labelValueRow(m, "Total Credits", formatCurrency(snap.Accounting.Balance.TotalCredits))

	netColor := pdfGreen
	if snap.Accounting.Balance.NetDifference < 0 {
		netColor = pdfRed
	}
	m.AddRow(7,
		col.New(5).Add(
			text.New("Net Difference", props.Text{Size: 9, Style: fontstyle.Bold}),
		),
		col.New(7).Add(
			text.New(formatCurrency(snap.Accounting.Balance.NetDifference), props.Text{
				Size: 9, Style: fontstyle.Bold, Color: netColor,
			}),
		),
	)

	s.labelValueRow(m, "Monthly Income", formatCurrency(snap.Accounting.CashFlow.MonthlyIncome))
	s.labelValueRow(m, "Monthly Expenses", formatCurrency(snap.Accounting.CashFlow.MonthlyExpenses))
	s.labelValueRow(m, "Monthly Net", formatCurrency(snap.Accounting.CashFlow.MonthlyNet))
	s.labelValueRow(m, "Vouchers (pending/confirmed/rejected)", fmt.Sprintf("%d / %d / %d",
		snap.Accounting.Vouchers.Pending, snap.Accounting.Vouchers.Confirmed, snap.Accounting.Vouchers.Rejected))
	m.AddRow(5)
}

var pdfEmployeeHeaders = []string{"Name", "Title", "Department", "Salary", "Status"}

// pdfEmployeeRows builds the rendered employee rows plus the truncation
// note ("" when nothing was cut). Split out so the cap policy is testable
// without parsing a PDF.
func pdfEmployeeRows(snap *ExportSnapshot, opts Options) ([][]string, string) {
	limit := effectiveRowCap(PDFEmployeeRowCap, opts)
	total := len(snap.Employees)
	shown := total
	if shown > limit {
		shown = limit
	}

	rows := make([][]string, 0, shown)
	for _, emp := range snap.Employees[:shown] {
		rows = append(rows, []string{
			sanitizeText(emp.Name, pdfCellTextCap),
			sanitizeText(emp.Title, pdfCellTextCap),
			sanitizeText(emp.Department, pdfCellTextCap),
			formatCurrency(emp.Salary),
			statusLabel(emp.Active),
		})
	}

	note := ""
	if shown < total {
		note = truncateNote(shown, total)
	}
	return rows, note
}

func (s *PDFExportService) addEmployeeTable(m core.Maroto, snap *ExportSnapshot, opts Options) {
	s.sectionTitle(m, "Employees")

	rows, note := pdfEmployeeRows(snap, opts)
	if len(rows) == 0 {
		m.AddRow(8,
			col.New(12).Add(
				text.New("No employee records in this export.", props.Text{
					Size: 9, Style: fontstyle.Italic, Color: pdfSlate,
				}),
			),
		)
		m.AddRow(5)
		return
	}

	colSizes := []int{3, 3, 2, 2, 2}
	headerCols := make([]core.Col, 0, len(pdfEmployeeHeaders))
	for i, h := range pdfEmployeeHeaders {
		headerCols = append(headerCols, col.New(colSizes[i]).Add(
			text.New(h, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}),
		))
	}
	m.AddRow(7, headerCols...)

	for _, r := range rows {
		dataCols := make([]core.Col, 0, len(r))
		for i, cell := range r {
			dataCols = append(dataCols, col.New(colSizes[i]).Add(
				text.New(cell, props.Text{Size: 7}),
			))
		}
		m.AddRow(6, dataCols...)
	}

	if note != "" {
		m.AddRow(6,
			col.New(12).Add(
				text.New(note, props.Text{
					Size: 7, Style: fontstyle.Italic, Align: align.Center, Color: pdfSlate,
				}),
			),
		)
	}
	m.AddRow(5)
}

func (s *PDFExportService) addOptionalSections(m core.Maroto, snap *ExportSnapshot) {
	if snap.Locations.Total > 0 {
		s.sectionTitle(m, "Locations")
		s.labelValueRow(m, "Total Locations", fmt.Sprintf("%d", snap.Locations.Total))
		s.labelValueRow(m, "Active Locations", fmt.Sprintf("%d", snap.Locations.Active))
		m.AddRow(5)
	}
	if snap.Items.Total > 0 {
		s.sectionTitle(m, "Inventory")
		s.labelValueRow(m, "Total Items", fmt.Sprintf("%d", snap.Items.Total))
		s.labelValueRow(m, "Low Stock Items", fmt.Sprintf("%d", snap.Items.LowStock))
		m.AddRow(5)
	}
	if snap.Roles.Total > 0 {
		s.sectionTitle(m, "Roles")
		s.labelValueRow(m, "Total Roles", fmt.Sprintf("%d", snap.Roles.Total))
		for _, name := range snap.Roles.Names {
			m.AddRow(6,
				col.New(12).Add(
					text.New("- "+sanitizeText(name, 60), props.Text{Size: 9}),
				),
			)
		}
		m.AddRow(5)
	}
}

func (s *PDFExportService) addAppliedFilters(m core.Maroto, filters []Filter) {
	s.sectionTitle(m, "Filters Applied")
	if len(filters) == 0 {
		m.AddRow(8,
			col.New(12).Add(
				text.New("Filtered export with no filter details provided.", props.Text{
					Size: 9, Style: fontstyle.Italic, Color: pdfSlate,
				}),
			),
		)
		return
	}

	m.AddRow(7,
		col.New(3).Add(text.New("Filter", props.Text{Size: 8, Style: fontstyle.Bold})),
		col.New(3).Add(text.New("Field", props.Text{Size: 8, Style: fontstyle.Bold})),
		col.New(3).Add(text.New("Operator", props.Text{Size: 8, Style: fontstyle.Bold})),
		col.New(3).Add(text.New("Value", props.Text{Size: 8, Style: fontstyle.Bold})),
	)
	for _, r := range appliedFilterRows(filters) {
		m.AddRow(6,
			col.New(3).Add(text.New(r[0], props.Text{Size: 8})),
			col.New(3).Add(text.New(r[1], props.Text{Size: 8})),
			col.New(3).Add(text.New(r[2], props.Text{Size: 8})),
			col.New(3).Add(text.New(r[3], props.Text{Size: 8})),
		)
	}
}

// appliedFilterRows builds the rendered filter table rows, one per applied
// filter, in the order the filters were applied.
func appliedFilterRows(filters []Filter) [][]string {
	rows := make([][]string, 0, len(filters))
	for _, f := range filters {
		rows = append(rows, []string{
			sanitizeText(f.Name, 30),
			sanitizeText(f.Field, 30),
			sanitizeText(f.Operator, 20),
			sanitizeText(f.Value, 30),
		})
	}
	return rows
}

// embeddableCharts returns rasters worth embedding (HasData, non-empty
// image) in a stable order.
func embeddableCharts(charts map[string]ChartRaster) []ChartRaster {
	if len(charts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(charts))
	for id := range charts {
		ids = append(ids, id)
	}
	// Map iteration order is random; sort for deterministic documents.
	sort.Strings(ids)

	out := make([]ChartRaster, 0, len(ids))
	for _, id := range ids {
		raster := charts[id]
		if !raster.HasData || len(raster.ImageData) == 0 {
			continue
		}
		out = append(out, raster)
	}
	return out
}
