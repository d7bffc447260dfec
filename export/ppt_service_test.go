package export

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPPTEmployeeRows_CapAndNote(t *testing.T) {
	snap := manyEmployeesSnapshot(500)

	rows, note := pptEmployeeRows(&snap, Options{})
	if len(rows) != SlidesEmployeeRowCap {
		t.Errorf("rows = %d, want %d", len(rows), SlidesEmployeeRowCap)
	}
	if note != "+488 more employees not shown" {
		t.Errorf("note = %q", note)
	}
}

func TestPPTEmployeeRows_NoNoteWhenUnderCap(t *testing.T) {
	snap := manyEmployeesSnapshot(4)
	rows, note := pptEmployeeRows(&snap, Options{})
	if len(rows) != 4 || note != "" {
		t.Errorf("rows = %d, note = %q", len(rows), note)
	}
}

func TestPPTEncode_ProducesPptx(t *testing.T) {
	snap := sampleSnapshot()
	artifact, err := NewPPTExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// pptx is a zip container.
	if !bytes.HasPrefix(artifact.Payload, []byte("PK")) {
		t.Error("payload should start with the zip magic bytes")
	}
	if artifact.MimeType != MimeType(FormatSlides) {
		t.Errorf("MimeType = %q", artifact.MimeType)
	}
	if !strings.HasSuffix(artifact.FileName, ".pptx") {
		t.Errorf("FileName = %q, want .pptx suffix", artifact.FileName)
	}
}

func TestPPTEncode_EmptySnapshot(t *testing.T) {
	snap := testNormalizer().Normalize(map[string]any{}, "", time.Time{}, FormatSlides)
	artifact, err := NewPPTExportService().Encode(&snap, nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed on empty snapshot: %v", err)
	}
	if !bytes.HasPrefix(artifact.Payload, []byte("PK")) {
		t.Error("payload should still be a valid zip container")
	}
}

func TestFinancialRecommendation(t *testing.T) {
	pos := financialRecommendation(5000)
	neg := financialRecommendation(-5000)
	zero := financialRecommendation(0)
	if pos == neg {
		t.Error("positive and negative balances should produce different guidance")
	}
	if pos == "" || neg == "" || zero == "" {
		t.Error("recommendation should never be empty")
	}
}
