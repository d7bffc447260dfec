package export

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestSanitizeText_Transliteration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José Muñoz", "Jose Munoz"},
		{"Ingeniería", "Ingenieria"},
		{"“quoted” – dash", `"quoted" - dash`},
		{"plain ascii", "plain ascii"},
		{"tab\there", "tab here"},
		{"emoji \U0001F600 gone", "emoji  gone"},
	}
	for _, tt := range tests {
		if got := sanitizeText(tt.in, 0); got != tt.want {
			t.Errorf("sanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeText_LengthCap(t *testing.T) {
	long := strings.Repeat("a", 50)
	got := sanitizeText(long, 30)
	if len(got) != 30 {
		t.Errorf("len = %d, want 30", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("capped text should end with ellipsis: %q", got)
	}
}

func TestSanitizeText_TinyCap(t *testing.T) {
	for maxLen := 1; maxLen <= 3; maxLen++ {
		got := sanitizeText("abcdefgh", maxLen)
		if len(got) != maxLen {
			t.Errorf("maxLen %d: len = %d, want %d", maxLen, len(got), maxLen)
		}
	}
	if got := sanitizeText("abcdefgh", 4); got != "a..." {
		t.Errorf("maxLen 4: got %q, want %q", got, "a...")
	}
}

// TestSanitizeTextAlwaysASCII verifies the output never contains a byte
// outside printable ASCII, for arbitrary input.
func TestSanitizeTextAlwaysASCII(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		out := sanitizeText(s, 0)
		for i := 0; i < len(out); i++ {
			if out[i] < 0x20 || out[i] >= 0x7f {
				t.Fatalf("byte %d = %#x outside printable ASCII in %q", i, out[i], out)
			}
		}
	})
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234567.89, "$1,234,567.89"},
		{999.5, "$999.50"},
		{-45000, "-$45,000.00"},
		{1000, "$1,000.00"},
		{2499999.999, "$2,500,000.00"},
	}
	for _, tt := range tests {
		if got := formatCurrency(tt.in); got != tt.want {
			t.Errorf("formatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(87.25); got != "87.2%" && got != "87.3%" {
		t.Errorf("formatPercent(87.25) = %q", got)
	}
	if got := formatPercent(0); got != "0.0%" {
		t.Errorf("formatPercent(0) = %q", got)
	}
}

func TestEffectiveRowCap(t *testing.T) {
	if got := effectiveRowCap(PDFEmployeeRowCap, Options{}); got != PDFEmployeeRowCap {
		t.Errorf("default cap = %d", got)
	}
	if got := effectiveRowCap(PDFEmployeeRowCap, Options{RowCapOverride: 5}); got != 5 {
		t.Errorf("override cap = %d", got)
	}
	if got := effectiveRowCap(WordEmployeeRowCap, Options{RowCapOverride: -1}); got != WordEmployeeRowCap {
		t.Errorf("negative override should be ignored, got %d", got)
	}
}

func TestTruncateNote(t *testing.T) {
	got := truncateNote(20, 500)
	if !strings.Contains(got, "first 20 of 500") || !strings.Contains(got, "480 more") {
		t.Errorf("truncateNote = %q", got)
	}
}
