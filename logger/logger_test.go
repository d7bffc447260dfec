package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_SessionMarkersAndMessages(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger()
	if err := l.Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	l.Log("export started")
	l.Logf("encoded %d bytes", 42)
	l.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "pulseboard_*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("log files = %v (err %v), want exactly 1", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"PulseBoard session started", "export started", "encoded 42 bytes", "PulseBoard session ended"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q:\n%s", want, content)
		}
	}
}

func TestLogger_RunCounterAdvances(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	first := nextLogFile(dir, now)
	if !strings.HasSuffix(first, "_1.log") {
		t.Errorf("first run file = %q, want run number 1", first)
	}
	if err := os.WriteFile(first, nil, 0644); err != nil {
		t.Fatalf("touch: %v", err)
	}
	second := nextLogFile(dir, now)
	if !strings.HasSuffix(second, "_2.log") {
		t.Errorf("second run file = %q, want run number 2", second)
	}
}

func TestLogger_DropsBeforeInit(t *testing.T) {
	l := NewLogger()
	// Must not panic with no file open.
	l.Log("ignored")
	l.Close()
}
