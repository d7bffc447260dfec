package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func parseCSV(t *testing.T, payload []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(payload))
	// The footer block has varying column counts.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("payload is not valid CSV: %v", err)
	}
	return records
}

func TestCSVEncode_HeaderAndRows(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewCSVExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	records := parseCSV(t, artifact.Payload)
	if len(records) == 0 {
		t.Fatal("empty CSV output")
	}
	if strings.Join(records[0], "|") != strings.Join(csvHeader, "|") {
		t.Errorf("header = %v, want %v", records[0], csvHeader)
	}
	// Header + one row per employee, then the footer block.
	if got := records[1][1]; got != "Alice Rivera" {
		t.Errorf("first data row name = %q", got)
	}
	if got := records[1][6]; got != "Active" {
		t.Errorf("first data row status = %q", got)
	}
	if got := records[2][5]; got != "$1,800,000.00" {
		t.Errorf("salary formatting = %q", got)
	}
}

func TestCSVEncode_QuotedFields(t *testing.T) {
	raw := map[string]any{
		"employees": []any{
			map[string]any{"name": `Rivera, Alice "Ali"`, "title": "VP, Sales"},
		},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatCSV)
	artifact, err := NewCSVExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	records := parseCSV(t, artifact.Payload)
	if records[1][1] != `Rivera, Alice "Ali"` {
		t.Errorf("comma/quote field round-trip = %q", records[1][1])
	}
	if records[1][3] != "VP, Sales" {
		t.Errorf("comma field round-trip = %q", records[1][3])
	}
}

func TestCSVEncode_FooterAggregates(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewCSVExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	text := string(artifact.Payload)
	for _, want := range []string{"Summary", "Total Employees,3", "Active Employees,2", "Inactive Employees,1", "Exported By,tester"} {
		if !strings.Contains(text, want) {
			t.Errorf("footer missing %q", want)
		}
	}
}

func TestCSVEncode_EmptySnapshot(t *testing.T) {
	snap := testNormalizer().Normalize(map[string]any{}, "", time.Time{}, FormatCSV)
	artifact, err := NewCSVExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed on empty snapshot: %v", err)
	}
	records := parseCSV(t, artifact.Payload)
	// Header plus the footer block only.
	if strings.Join(records[0], "|") != strings.Join(csvHeader, "|") {
		t.Error("empty export should still carry the header row")
	}
	if len(artifact.Payload) == 0 {
		t.Error("payload should be non-empty")
	}
}
