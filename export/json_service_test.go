package export

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func sampleSnapshot() ExportSnapshot {
	raw := map[string]any{
		"system_metrics": map[string]any{
			"total_employees":  float64(3),
			"active_employees": float64(2),
			"cpu_usage":        float64(41.5),
		},
		"employees": []any{
			map[string]any{"name": "Alice Rivera", "salary": float64(2500000), "is_active": true, "department": "Engineering"},
			map[string]any{"name": "Bruno Diaz", "salary": float64(1800000), "is_active": false, "department": "Sales"},
			map[string]any{"name": "Carla Ortiz", "salary": float64(3900000), "is_active": true, "department": "Finance"},
		},
		"performance": map[string]any{"productivity": float64(88.0), "efficiency": float64(74.5)},
		"accounting": map[string]any{
			"balance":   map[string]any{"totalDebits": float64(120000), "totalCredits": float64(185000)},
			"cash_flow": map[string]any{"monthly_income": float64(90000), "monthly_expenses": float64(55000)},
		},
		"payroll": map[string]any{"total_monthly_amount": float64(8200000), "monthly_records": float64(3)},
	}
	return testNormalizer().Normalize(raw, "tester", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), FormatJSON)
}

func TestJSONEncode_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewJSONExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded ExportSnapshot
	if err := json.Unmarshal(artifact.Payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(snap, decoded) {
		t.Error("decoded snapshot differs from the original")
	}
}

func TestJSONEncode_ArtifactMetadata(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewJSONExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if artifact.MimeType != "application/json" {
		t.Errorf("MimeType = %q", artifact.MimeType)
	}
	if got := artifact.FileName; len(got) == 0 || got[:len("hr_dashboard_complete_")] != "hr_dashboard_complete_" {
		t.Errorf("FileName = %q, want hr_dashboard_complete_ prefix", got)
	}
}

func TestJSONEncode_EmptySnapshot(t *testing.T) {
	snap := testNormalizer().Normalize(map[string]any{}, "", time.Time{}, FormatJSON)
	artifact, err := NewJSONExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed on empty snapshot: %v", err)
	}
	if !json.Valid(artifact.Payload) {
		t.Error("payload should be valid JSON")
	}
}
