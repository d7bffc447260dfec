package export

import (
	"encoding/json"
	"testing"
	"time"
)

func testNormalizer() *Normalizer {
	fixed := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	return NewNormalizerWithClock(
		func() time.Time { return fixed },
		func() string { return "export-test-0001" },
	)
}

func TestNormalize_MixedFieldConventions(t *testing.T) {
	raw := map[string]any{
		"system_metrics": map[string]any{
			"total_employees": float64(48),
			"cpu_usage":       float64(37.5),
		},
		"systemMetrics": map[string]any{
			"activeEmployees": float64(40),
		},
		"employees": []any{
			map[string]any{
				"nombre_completo": "Maria Gomez",
				"salario_base":    float64(3200000),
				"activo":          "si",
				"departamento":    "Contabilidad",
			},
			map[string]any{
				"firstName": "John",
				"lastName":  "Smith",
				"salary":    float64(4100000),
				"is_active": true,
			},
		},
		"performance": map[string]any{
			"productividad": float64(87.2),
		},
	}

	snap := testNormalizer().Normalize(raw, "ana", time.Time{}, FormatJSON)

	if snap.SystemMetrics.TotalEmployees != 48 {
		t.Errorf("TotalEmployees = %d, want 48", snap.SystemMetrics.TotalEmployees)
	}
	if snap.SystemMetrics.ActiveEmployees != 40 {
		t.Errorf("ActiveEmployees = %d, want 40", snap.SystemMetrics.ActiveEmployees)
	}
	if snap.SystemMetrics.InactiveEmployees != 8 {
		t.Errorf("InactiveEmployees = %d, want 8", snap.SystemMetrics.InactiveEmployees)
	}
	if len(snap.Employees) != 2 {
		t.Fatalf("len(Employees) = %d, want 2", len(snap.Employees))
	}
	if snap.Employees[0].Name != "Maria Gomez" {
		t.Errorf("employee 0 name = %q", snap.Employees[0].Name)
	}
	if !snap.Employees[0].Active {
		t.Error("employee 0 should be active (activo: si)")
	}
	if snap.Employees[0].Department != "Contabilidad" {
		t.Errorf("employee 0 department = %q", snap.Employees[0].Department)
	}
	if snap.Employees[1].Name != "John Smith" {
		t.Errorf("employee 1 name = %q, want joined first/last", snap.Employees[1].Name)
	}
	if snap.Performance.Productivity != 87.2 {
		t.Errorf("Productivity = %v, want 87.2", snap.Performance.Productivity)
	}
	if snap.Metadata.ExportID != "export-test-0001" {
		t.Errorf("ExportID = %q", snap.Metadata.ExportID)
	}
	if snap.Metadata.LastUpdated != "N/A" {
		t.Errorf("zero lastUpdated should render as N/A, got %q", snap.Metadata.LastUpdated)
	}
}

func TestNormalize_EmptyInputProducesDefaults(t *testing.T) {
	snap := testNormalizer().Normalize(map[string]any{}, "", time.Time{}, FormatCSV)

	if snap.Metadata.ExportedBy != "N/A" {
		t.Errorf("ExportedBy = %q, want N/A", snap.Metadata.ExportedBy)
	}
	if snap.Metadata.Environment != "production" {
		t.Errorf("Environment = %q, want production", snap.Metadata.Environment)
	}
	if snap.Metadata.SystemInfo.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", snap.Metadata.SystemInfo.Timezone)
	}
	if snap.Configuration.Currency != "COP" {
		t.Errorf("Currency = %q, want COP", snap.Configuration.Currency)
	}
	if len(snap.Employees) != 0 {
		t.Errorf("Employees should be empty, got %d", len(snap.Employees))
	}
	if snap.SystemMetrics.InactiveEmployees != 0 {
		t.Errorf("InactiveEmployees = %d, want 0", snap.SystemMetrics.InactiveEmployees)
	}
	// Summary metrics are always counted even when everything else is empty.
	if snap.ExportStats.TotalRecordsExported != summaryMetricsCount {
		t.Errorf("TotalRecordsExported = %d, want %d", snap.ExportStats.TotalRecordsExported, summaryMetricsCount)
	}
}

func TestNormalize_MalformedEmployeePreservesCount(t *testing.T) {
	raw := map[string]any{
		"employees": []any{
			map[string]any{"name": "Alice"},
			"not-an-object",
			float64(42),
			map[string]any{"name": "Bob"},
		},
	}

	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatJSON)

	if len(snap.Employees) != 4 {
		t.Fatalf("len(Employees) = %d, want 4 (malformed entries keep their rows)", len(snap.Employees))
	}
	if snap.Employees[1].Name != "N/A" || snap.Employees[2].Name != "N/A" {
		t.Error("malformed entries should become placeholder rows")
	}
	if snap.Employees[1].ID != "emp-2" {
		t.Errorf("placeholder ID = %q, want emp-2", snap.Employees[1].ID)
	}
}

func TestNormalize_InactiveNeverNegative(t *testing.T) {
	raw := map[string]any{
		"system_metrics": map[string]any{
			"total_employees":  float64(5),
			"active_employees": float64(9),
		},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatJSON)
	if snap.SystemMetrics.InactiveEmployees != 0 {
		t.Errorf("InactiveEmployees = %d, want 0 when active > total", snap.SystemMetrics.InactiveEmployees)
	}
}

func TestNormalize_TotalFallsBackToEmployeeList(t *testing.T) {
	raw := map[string]any{
		"employees": []any{
			map[string]any{"name": "A", "active": true},
			map[string]any{"name": "B", "active": false},
			map[string]any{"name": "C", "active": true},
		},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatJSON)
	if snap.SystemMetrics.TotalEmployees != 3 {
		t.Errorf("TotalEmployees = %d, want 3 from employee list", snap.SystemMetrics.TotalEmployees)
	}
}

func TestNormalize_AccountingNetIsComputed(t *testing.T) {
	raw := map[string]any{
		"accounting": map[string]any{
			"balance": map[string]any{
				"totalDebits":  float64(1500),
				"totalCredits": float64(2000),
			},
			"cash_flow": map[string]any{
				"monthly_income":   float64(900),
				"monthly_expenses": float64(400),
			},
		},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatJSON)
	if snap.Accounting.Balance.NetDifference != 500 {
		t.Errorf("NetDifference = %v, want 500", snap.Accounting.Balance.NetDifference)
	}
	if snap.Accounting.CashFlow.MonthlyNet != 500 {
		t.Errorf("MonthlyNet = %v, want 500", snap.Accounting.CashFlow.MonthlyNet)
	}
}

func TestNormalize_GaugesClamped(t *testing.T) {
	raw := map[string]any{
		"system_metrics": map[string]any{
			"cpu_usage":    float64(140),
			"memory_usage": float64(-20),
		},
		"performance": map[string]any{
			"productivity": float64(250),
		},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatJSON)
	if snap.SystemMetrics.CPUUsage != 100 {
		t.Errorf("CPUUsage = %v, want clamped to 100", snap.SystemMetrics.CPUUsage)
	}
	if snap.SystemMetrics.MemoryUsage != 0 {
		t.Errorf("MemoryUsage = %v, want clamped to 0", snap.SystemMetrics.MemoryUsage)
	}
	if snap.Performance.Productivity != 100 {
		t.Errorf("Productivity = %v, want clamped to 100", snap.Performance.Productivity)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := map[string]any{
		"employees": []any{
			map[string]any{"name": "Alice", "salary": float64(100)},
		},
		"system_metrics": map[string]any{"total_employees": float64(1)},
	}
	before, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}

	testNormalizer().Normalize(raw, "u", time.Now(), FormatJSON)

	after, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Normalize mutated the raw input map")
	}
}

func TestNormalize_RecordCountFormula(t *testing.T) {
	raw := map[string]any{
		"employees": []any{
			map[string]any{"name": "A"},
			map[string]any{"name": "B"},
		},
		"locations": map[string]any{"total": float64(3)},
		"items":     map[string]any{"total": float64(7)},
		"loans":     map[string]any{"active_loans": float64(4)},
		"payroll":   map[string]any{"monthly_records": float64(2)},
		"roles":     map[string]any{"total": float64(5)},
	}
	snap := testNormalizer().Normalize(raw, "u", time.Time{}, FormatJSON)

	want := 2 + 3 + 7 + 4 + 2 + 5 + summaryMetricsCount
	if snap.ExportStats.TotalRecordsExported != want {
		t.Errorf("TotalRecordsExported = %d, want %d", snap.ExportStats.TotalRecordsExported, want)
	}
	if len(snap.ExportStats.DataTypes) == 0 {
		t.Error("DataTypes should list the exported sections")
	}
}

func TestPickBool_Spellings(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{float64(1), true},
		{float64(0), false},
		{"si", true},
		{"Activo", true},
		{"inactivo", false},
		{"true", true},
		{"no", false},
	}
	for _, tt := range tests {
		raw := map[string]any{"active": tt.value}
		if got := pickBool(raw, "active"); got != tt.want {
			t.Errorf("pickBool(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLookupPath_NestedAndMissing(t *testing.T) {
	raw := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": float64(9)}},
		"x": nil,
	}
	if v, ok := lookupPath(raw, "a.b.c"); !ok || v.(float64) != 9 {
		t.Errorf("lookupPath(a.b.c) = %v, %v", v, ok)
	}
	if _, ok := lookupPath(raw, "a.b.missing"); ok {
		t.Error("missing leaf should not resolve")
	}
	if _, ok := lookupPath(raw, "x"); ok {
		t.Error("explicit null should not resolve")
	}
	if _, ok := lookupPath(raw, "a.b.c.d"); ok {
		t.Error("path through a scalar should not resolve")
	}
}
