package export

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"testing"
	"time"
)

// manyEmployeesSnapshot builds a snapshot with n generated employees.
func manyEmployeesSnapshot(n int) ExportSnapshot {
	list := make([]any, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, map[string]any{
			"name":       fmt.Sprintf("Employee %03d", i+1),
			"title":      "Analyst",
			"department": "Operations",
			"salary":     float64(2000000 + i*1000),
			"is_active":  i%4 != 0,
		})
	}
	raw := map[string]any{"employees": list}
	return testNormalizer().Normalize(raw, "tester", time.Time{}, FormatPDF)
}

func TestPDFEmployeeRows_CapAndNote(t *testing.T) {
	snap := manyEmployeesSnapshot(500)

	rows, note := pdfEmployeeRows(&snap, Options{})
	if len(rows) != PDFEmployeeRowCap {
		t.Errorf("rows = %d, want %d", len(rows), PDFEmployeeRowCap)
	}
	if !strings.Contains(note, "first 20 of 500") {
		t.Errorf("note = %q", note)
	}
	if !strings.Contains(note, "480 more") {
		t.Errorf("note should count the hidden rows: %q", note)
	}
}

func TestPDFEmployeeRows_NoNoteWhenUnderCap(t *testing.T) {
	snap := manyEmployeesSnapshot(5)
	rows, note := pdfEmployeeRows(&snap, Options{})
	if len(rows) != 5 {
		t.Errorf("rows = %d, want 5", len(rows))
	}
	if note != "" {
		t.Errorf("note should be empty under the cap, got %q", note)
	}
}

func TestPDFEmployeeRows_Override(t *testing.T) {
	snap := manyEmployeesSnapshot(50)
	rows, _ := pdfEmployeeRows(&snap, Options{RowCapOverride: 30})
	if len(rows) != 30 {
		t.Errorf("rows = %d, want 30 with override", len(rows))
	}
}

func TestPDFEmployeeRows_SanitizedCells(t *testing.T) {
	raw := map[string]any{
		"employees": []any{
			map[string]any{"name": "José Ñáñez", "title": "Ingeniería", "salary": float64(100)},
		},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatPDF)
	rows, _ := pdfEmployeeRows(&snap, Options{})
	if rows[0][0] != "Jose Nanez" {
		t.Errorf("name cell = %q, want transliterated", rows[0][0])
	}
	if rows[0][1] != "Ingenieria" {
		t.Errorf("title cell = %q, want transliterated", rows[0][1])
	}
}

func TestPDFEncode_ProducesPDF(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewPDFExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Payload, []byte("%PDF")) {
		t.Error("payload should start with the PDF magic bytes")
	}
	if artifact.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q", artifact.MimeType)
	}
}

func TestPDFEncode_EmptySnapshot(t *testing.T) {
	snap := testNormalizer().Normalize(map[string]any{}, "", time.Time{}, FormatPDF)
	artifact, err := NewPDFExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed on empty snapshot: %v", err)
	}
	if len(artifact.Payload) == 0 {
		t.Error("payload should be non-empty")
	}
}

func TestPDFEncode_WithCharts(t *testing.T) {
	snap := sampleSnapshot()
	chartPNG := encodeTestPNG(32, 24, color.NRGBA{R: 30, G: 60, B: 120, A: 255})
	charts := map[string]ChartRaster{
		"a": {ID: "a", Title: "Headcount", ChartType: "bar", DatasetCount: 1, HasData: true,
			ImageData: chartPNG},
		"empty": {ID: "empty", Title: "Empty", HasData: false,
			ImageData: chartPNG},
	}
	artifact, err := NewPDFExportService().Encode(&snap, charts, Options{IncludeCharts: true})
	if err != nil {
		t.Fatalf("Encode with charts failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Payload, []byte("%PDF")) {
		t.Error("payload should start with the PDF magic bytes")
	}
}

func TestAppliedFilterRows(t *testing.T) {
	rows := appliedFilterRows([]Filter{
		{Name: "Departamento Ñómina", Field: "department", Operator: "equals", Value: "Ingeniería"},
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0][0] != "Departamento Nomina" {
		t.Errorf("name cell = %q, want transliterated", rows[0][0])
	}
	if rows[0][1] != "department" || rows[0][2] != "equals" {
		t.Errorf("row = %v", rows[0])
	}
	if rows[0][3] != "Ingenieria" {
		t.Errorf("value cell = %q, want transliterated", rows[0][3])
	}
}

func TestPDFEncode_FilteredWithOneFilter(t *testing.T) {
	snap := sampleSnapshot()
	opts := Options{
		IsFiltered: true,
		ActiveFilters: []Filter{
			{Name: "Department", Field: "department", Operator: "equals", Value: "Engineering"},
		},
	}
	artifact, err := NewPDFExportService().Encode(&snap, nil, opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Payload, []byte("%PDF")) {
		t.Error("payload should start with the PDF magic bytes")
	}
	if !strings.Contains(artifact.FileName, "filtered") {
		t.Errorf("FileName = %q, want the filtered label", artifact.FileName)
	}
	if rows := appliedFilterRows(opts.ActiveFilters); len(rows) != 1 {
		t.Errorf("filter table rows = %d, want exactly 1", len(rows))
	}
}

func TestPDFEncode_FilteredWithoutFilterDetails(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewPDFExportService().Encode(&snap, nil, Options{IsFiltered: true})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Payload, []byte("%PDF")) {
		t.Error("payload should start with the PDF magic bytes")
	}
}

func TestEmbeddableCharts_FiltersAndSorts(t *testing.T) {
	charts := map[string]ChartRaster{
		"z": {ID: "z", HasData: true, ImageData: []byte{1}},
		"a": {ID: "a", HasData: true, ImageData: []byte{1}},
		"n": {ID: "n", HasData: false, ImageData: []byte{1}},
		"m": {ID: "m", HasData: true},
	}
	got := embeddableCharts(charts)
	if len(got) != 2 {
		t.Fatalf("embeddable = %d, want 2 (no data / no payload excluded)", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "z" {
		t.Errorf("charts should be sorted by id: %v, %v", got[0].ID, got[1].ID)
	}
}
