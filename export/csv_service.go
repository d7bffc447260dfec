package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// csvHeader is the fixed column order of the employee table.
var csvHeader = []string{"ID", "Name", "Email", "Title", "Department", "Salary", "Status", "Hire Date", "Phone"}

// CSVExportService produces the flat employee table plus a footer block of
// aggregate counts. One data row per employee; quoting is handled by the
// csv writer whenever a value contains the separator.
type CSVExportService struct{}

// NewCSVExportService creates a new CSV export service.
func NewCSVExportService() *CSVExportService {
	return &CSVExportService{}
}

// Encode writes header, one row per employee, and the aggregate footer.
func (s *CSVExportService) Encode(snap *ExportSnapshot, _ map[string]ChartRaster, opts Options) (*Artifact, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, emp := range snap.Employees {
		row := []string{
			emp.ID,
			emp.Name,
			emp.Email,
			emp.Title,
			emp.Department,
			formatCurrency(emp.Salary),
			statusLabel(emp.Active),
			emp.HireDate,
			emp.Phone,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write employee row: %w", err)
		}
	}

	// Footer block: blank spacer, then aggregate counts.
	footer := [][]string{
		{},
		{"Summary", ""},
		{"Total Employees", strconv.Itoa(snap.SystemMetrics.TotalEmployees)},
		{"Active Employees", strconv.Itoa(snap.SystemMetrics.ActiveEmployees)},
		{"Inactive Employees", strconv.Itoa(snap.SystemMetrics.InactiveEmployees)},
		{"Total Records Exported", strconv.Itoa(snap.ExportStats.TotalRecordsExported)},
		{"Exported At", snap.Metadata.ExportedAt},
		{"Exported By", snap.Metadata.ExportedBy},
	}
	for _, row := range footer {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write footer row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return &Artifact{
		Payload:  buf.Bytes(),
		FileName: BuildFileName(FormatCSV, opts, time.Now()),
		MimeType: MimeType(FormatCSV),
	}, nil
}
