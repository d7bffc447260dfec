package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Slide layout constants, 16:9 widescreen.
const (
	emuPerInch = 914400

	pptMarginLeft   = int64(0.4 * emuPerInch)
	pptContentWidth = int64(9.2 * emuPerInch)
	pptSlideWidth   = int64(10.0 * emuPerInch)

	pptFontTitle     = 36
	pptFontHeading   = 28
	pptFontBody      = 14
	pptFontSmall     = 12
	pptFontTableHead = 11
	pptFontTableCell = 10
	pptFontFooter    = 9
)

// PPTExportService produces the fixed five-slide deck using GoPPT (pure
// Go). The slide count and order never change with data volume: cover,
// executive summary, employees, financial analysis, system info.
type PPTExportService struct{}

// NewPPTExportService creates a new PowerPoint export service.
func NewPPTExportService() *PPTExportService {
	return &PPTExportService{}
}

func pptSolidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func pptAlignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// Encode builds the deck.
func (s *PPTExportService) Encode(snap *ExportSnapshot, _ map[string]ChartRaster, opts Options) (*Artifact, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = "HR Dashboard Report"
	p.GetDocumentProperties().Creator = "PulseBoard"

	s.addCoverSlide(p, snap, opts)
	s.addSummarySlide(p, snap)
	s.addEmployeeSlide(p, snap, opts)
	s.addFinancialSlide(p, snap)
	s.addSystemSlide(p, snap)

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}

	return &Artifact{
		Payload:  buf.Bytes(),
		FileName: BuildFileName(FormatSlides, opts, time.Now()),
		MimeType: MimeType(FormatSlides),
	}, nil
}

func (s *PPTExportService) addSlideHeader(slide *ppt.Slide, title string) {
	topBar := slide.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(pptSlideWidth).SetHeight(int64(0.08 * emuPerInch))
	topBar.SetFill(pptSolidFill("FF3B82F6"))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	titleShape.SetWidth(pptContentWidth).SetHeight(int64(0.6 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(pptFontHeading).SetBold(true).SetColor(ppt.NewColor("FF1E40AF"))
}

func (s *PPTExportService) addCoverSlide(p *ppt.Presentation, snap *ExportSnapshot, opts Options) {
	slide := p.GetActiveSlide()

	topBar := slide.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(pptSlideWidth).SetHeight(int64(0.15 * emuPerInch))
	topBar.SetFill(pptSolidFill("FF3B82F6"))

	title := "HR Dashboard Report - Complete"
	if opts.IsFiltered {
		title = "HR Dashboard Report - Filtered"
	}
	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(1.6 * emuPerInch))
	titleShape.SetWidth(pptContentWidth).SetHeight(int64(1.0 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(pptFontTitle).SetBold(true).SetColor(ppt.NewColor("FF1E40AF"))
	pptAlignCenter(titleShape.GetActiveParagraph())

	subShape := slide.CreateRichTextShape()
	subShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(2.8 * emuPerInch))
	subShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(0.6 * emuPerInch))
	subTr := subShape.CreateTextRun(snap.Configuration.CompanyName)
	subTr.GetFont().SetSize(20).SetColor(ppt.NewColor("FF475569"))
	pptAlignCenter(subShape.GetActiveParagraph())

	if opts.IsFiltered && len(opts.ActiveFilters) > 0 {
		names := make([]string, 0, len(opts.ActiveFilters))
		for _, f := range opts.ActiveFilters {
			names = append(names, f.Name)
		}
		filterShape := slide.CreateRichTextShape()
		filterShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(3.5 * emuPerInch))
		filterShape.SetWidth(pptContentWidth).SetHeight(int64(0.4 * emuPerInch))
		ftr := filterShape.CreateTextRun("Filters applied: " + strings.Join(names, ", "))
		ftr.GetFont().SetSize(pptFontSmall).SetColor(ppt.NewColor("FF64748B"))
		pptAlignCenter(filterShape.GetActiveParagraph())
	}

	tsShape := slide.CreateRichTextShape()
	tsShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(4.0 * emuPerInch))
	tsShape.SetWidth(pptContentWidth).SetHeight(int64(0.4 * emuPerInch))
	tsTr := tsShape.CreateTextRun(snap.Metadata.ExportedAt)
	tsTr.GetFont().SetSize(pptFontSmall).SetColor(ppt.NewColor("FF94A3B8"))
	pptAlignCenter(tsShape.GetActiveParagraph())

	footerShape := slide.CreateRichTextShape()
	footerShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(4.8 * emuPerInch))
	footerShape.SetWidth(pptContentWidth).SetHeight(int64(0.3 * emuPerInch))
	ftTr := footerShape.CreateTextRun("Generated by PulseBoard")
	ftTr.GetFont().SetSize(pptFontFooter).SetColor(ppt.NewColor("FF94A3B8"))
	pptAlignCenter(footerShape.GetActiveParagraph())

	bottomBar := slide.CreateRichTextShape()
	bottomBar.SetOffsetX(0).SetOffsetY(int64(5.5 * emuPerInch))
	bottomBar.SetWidth(pptSlideWidth).SetHeight(int64(0.125 * emuPerInch))
	bottomBar.SetFill(pptSolidFill("FF3B82F6"))
}

// metricCard draws one metric card box.
func (s *PPTExportService) metricCard(slide *ppt.Slide, x, y, w, h float64, title, value string) {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(int64(x * emuPerInch)).SetOffsetY(int64(y * emuPerInch))
	shape.SetWidth(int64(w * emuPerInch)).SetHeight(int64(h * emuPerInch))
	shape.SetFill(pptSolidFill("FFF8FAFC"))

	titleTr := shape.CreateTextRun(title)
	titleTr.GetFont().SetSize(pptFontSmall).SetColor(ppt.NewColor("FF64748B"))
	pptAlignCenter(shape.GetActiveParagraph())

	shape.CreateParagraph()
	valueTr := shape.CreateTextRun(value)
	valueTr.GetFont().SetSize(28).SetBold(true).SetColor(ppt.NewColor("FF1E40AF"))
	pptAlignCenter(shape.GetActiveParagraph())
}

// highlightBox draws one financial highlight box with a colored value.
func (s *PPTExportService) highlightBox(slide *ppt.Slide, x, y, w, h float64, title, value, valueColor string) {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(int64(x * emuPerInch)).SetOffsetY(int64(y * emuPerInch))
	shape.SetWidth(int64(w * emuPerInch)).SetHeight(int64(h * emuPerInch))
	shape.SetFill(pptSolidFill("FFF1F5F9"))

	titleTr := shape.CreateTextRun(title)
	titleTr.GetFont().SetSize(pptFontSmall).SetColor(ppt.NewColor("FF64748B"))
	pptAlignCenter(shape.GetActiveParagraph())

	shape.CreateParagraph()
	valueTr := shape.CreateTextRun(value)
	valueTr.GetFont().SetSize(20).SetBold(true).SetColor(ppt.NewColor(valueColor))
	pptAlignCenter(shape.GetActiveParagraph())
}

func (s *PPTExportService) addSummarySlide(p *ppt.Presentation, snap *ExportSnapshot) {
	slide := p.CreateSlide()
	s.addSlideHeader(slide, "Executive Summary")

	// Three metric cards.
	cardY := 1.2
	cardW := 2.93
	cardH := 1.4
	spacing := 0.2
	s.metricCard(slide, 0.4, cardY, cardW, cardH,
		"Total Employees", fmt.Sprintf("%d", snap.SystemMetrics.TotalEmployees))
	s.metricCard(slide, 0.4+cardW+spacing, cardY, cardW, cardH,
		"Active", fmt.Sprintf("%d", snap.SystemMetrics.ActiveEmployees))
	s.metricCard(slide, 0.4+2*(cardW+spacing), cardY, cardW, cardH,
		"Records Exported", fmt.Sprintf("%d", snap.ExportStats.TotalRecordsExported))

	// Two financial highlight boxes.
	boxY := cardY + cardH + 0.3
	boxW := 4.5
	netColor := "FF16A34A"
	if snap.Accounting.Balance.NetDifference < 0 {
		netColor = "FFDC2626"
	}
	s.highlightBox(slide, 0.4, boxY, boxW, 1.2,
		"Monthly Payroll", formatCurrency(snap.Payroll.TotalMonthlyAmount), "FF1E40AF")
	s.highlightBox(slide, 0.4+boxW+spacing, boxY, boxW, 1.2,
		"Net Balance", formatCurrency(snap.Accounting.Balance.NetDifference), netColor)
}

// pptEmployeeRows builds the rendered rows plus the overflow note ("" when
// nothing was cut).
func pptEmployeeRows(snap *ExportSnapshot, opts Options) ([][]string, string) {
	limit := effectiveRowCap(SlidesEmployeeRowCap, opts)
	total := len(snap.Employees)
	shown := total
	if shown > limit {
		shown = limit
	}

	rows := make([][]string, 0, shown)
	for _, emp := range snap.Employees[:shown] {
		rows = append(rows, []string{
			emp.Name,
			emp.Department,
			formatCurrency(emp.Salary),
			statusLabel(emp.Active),
		})
	}

	note := ""
	if shown < total {
		note = fmt.Sprintf("+%d more employees not shown", total-shown)
	}
	return rows, note
}

var pptEmployeeHeaders = []string{"Name", "Department", "Salary", "Status"}

func (s *PPTExportService) addEmployeeSlide(p *ppt.Presentation, snap *ExportSnapshot, opts Options) {
	slide := p.CreateSlide()
	s.addSlideHeader(slide, "Employees")

	rows, note := pptEmployeeRows(snap, opts)
	if len(rows) == 0 {
		emptyShape := slide.CreateRichTextShape()
		emptyShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(2.0 * emuPerInch))
		emptyShape.SetWidth(pptContentWidth).SetHeight(int64(0.5 * emuPerInch))
		tr := emptyShape.CreateTextRun("No employee records in this export.")
		tr.GetFont().SetSize(pptFontBody).SetColor(ppt.NewColor("FF64748B"))
		pptAlignCenter(emptyShape.GetActiveParagraph())
		return
	}

	tableStartY := 1.0
	tableWidth := 9.2
	headerHeight := 0.35
	rowHeight := 0.3

	headerShape := slide.CreateRichTextShape()
	headerShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(tableStartY * emuPerInch))
	headerShape.SetWidth(int64(tableWidth * emuPerInch)).SetHeight(int64(headerHeight * emuPerInch))
	headerShape.SetFill(pptSolidFill("FF3B82F6"))
	headerTr := headerShape.CreateTextRun(strings.Join(pptEmployeeHeaders, "    |    "))
	headerTr.GetFont().SetSize(pptFontTableHead).SetBold(true).SetColor(ppt.ColorWhite)
	pptAlignCenter(headerShape.GetActiveParagraph())

	currentY := tableStartY + headerHeight
	for rowIdx, r := range rows {
		rowShape := slide.CreateRichTextShape()
		rowShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(currentY * emuPerInch))
		rowShape.SetWidth(int64(tableWidth * emuPerInch)).SetHeight(int64(rowHeight * emuPerInch))
		if rowIdx%2 == 0 {
			rowShape.SetFill(pptSolidFill("FFF8FAFC"))
		} else {
			rowShape.SetFill(pptSolidFill("FFF1F5F9"))
		}

		cells := make([]string, len(r))
		for i, cell := range r {
			if len([]rune(cell)) > 24 {
				cell = string([]rune(cell)[:22]) + ".."
			}
			cells[i] = cell
		}
		rowTr := rowShape.CreateTextRun(strings.Join(cells, "    |    "))
		rowTr.GetFont().SetSize(pptFontTableCell).SetColor(ppt.NewColor("FF334155"))
		pptAlignCenter(rowShape.GetActiveParagraph())

		currentY += rowHeight
	}

	if note != "" {
		noteShape := slide.CreateRichTextShape()
		noteShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(5.2 * emuPerInch))
		noteShape.SetWidth(pptContentWidth).SetHeight(int64(0.25 * emuPerInch))
		noteTr := noteShape.CreateTextRun(note)
		noteTr.GetFont().SetSize(pptFontFooter).SetColor(ppt.NewColor("FF94A3B8"))
		noteShape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))
	}
}

// financialRecommendation picks the qualitative sentence by sign of the net
// balance.
func financialRecommendation(net float64) string {
	switch {
	case net > 0:
		return "Positive net balance: credits exceed debits, the accounting position is healthy."
	case net < 0:
		return "Negative net balance: debits exceed credits, review expense allocation this period."
	default:
		return "Net balance is zero: debits and credits are exactly matched."
	}
}

func (s *PPTExportService) addFinancialSlide(p *ppt.Presentation, snap *ExportSnapshot) {
	slide := p.CreateSlide()
	s.addSlideHeader(slide, "Financial Analysis")

	boxY := 1.3
	boxW := 2.93
	boxH := 1.3
	spacing := 0.2
	net := snap.Accounting.Balance.NetDifference
	netColor := "FF16A34A"
	if net < 0 {
		netColor = "FFDC2626"
	}
	s.highlightBox(slide, 0.4, boxY, boxW, boxH,
		"Total Credits", formatCurrency(snap.Accounting.Balance.TotalCredits), "FF16A34A")
	s.highlightBox(slide, 0.4+boxW+spacing, boxY, boxW, boxH,
		"Total Debits", formatCurrency(snap.Accounting.Balance.TotalDebits), "FFDC2626")
	s.highlightBox(slide, 0.4+2*(boxW+spacing), boxY, boxW, boxH,
		"Net Balance", formatCurrency(net), netColor)

	recShape := slide.CreateRichTextShape()
	recShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(3.2 * emuPerInch))
	recShape.SetWidth(pptContentWidth).SetHeight(int64(0.8 * emuPerInch))
	recShape.SetFill(pptSolidFill("FFF8FAFC"))
	recTr := recShape.CreateTextRun(financialRecommendation(net))
	recTr.GetFont().SetSize(pptFontBody).SetColor(ppt.NewColor("FF334155"))
	pptAlignCenter(recShape.GetActiveParagraph())
}

func (s *PPTExportService) addSystemSlide(p *ppt.Presentation, snap *ExportSnapshot) {
	slide := p.CreateSlide()
	s.addSlideHeader(slide, "System Information")

	lines := []string{
		"Export ID: " + snap.Metadata.ExportID,
		"Exported By: " + snap.Metadata.ExportedBy,
		"Environment: " + snap.Metadata.Environment,
		"Version: " + snap.Metadata.Version,
		"Timezone: " + snap.Metadata.SystemInfo.Timezone,
		"User Agent: " + snap.Metadata.SystemInfo.UserAgent,
		fmt.Sprintf("CPU / Memory / Disk: %s / %s / %s",
			formatPercent(snap.SystemMetrics.CPUUsage),
			formatPercent(snap.SystemMetrics.MemoryUsage),
			formatPercent(snap.SystemMetrics.DiskUsage)),
	}

	contentShape := slide.CreateRichTextShape()
	contentShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(1.2 * emuPerInch))
	contentShape.SetWidth(pptContentWidth).SetHeight(int64(3.8 * emuPerInch))
	for i, line := range lines {
		if i > 0 {
			contentShape.CreateParagraph()
		}
		tr := contentShape.CreateTextRun(line)
		tr.GetFont().SetSize(pptFontBody).SetColor(ppt.NewColor("FF334155"))
	}
}
