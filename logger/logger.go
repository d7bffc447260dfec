package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes the per-run PulseBoard log file. One file is created per
// process start, named by date plus a run counter so several runs on the
// same day never collide.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// NewLogger creates a new Logger instance
func NewLogger() *Logger {
	return &Logger{}
}

// Init opens a fresh log file in the given directory. Messages logged
// before Init are dropped.
func (l *Logger) Init(logDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
	}

	f, err := os.OpenFile(nextLogFile(logDir, time.Now()), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	l.file = f
	l.logInternal("PulseBoard session started")
	return nil
}

// nextLogFile picks pulseboard_<date>_<n>.log with the next free run number.
func nextLogFile(logDir string, now time.Time) string {
	dateStr := now.Format("2006-01-02")
	pattern := filepath.Join(logDir, fmt.Sprintf("pulseboard_%s_*.log", dateStr))
	matches, _ := filepath.Glob(pattern)
	return filepath.Join(logDir, fmt.Sprintf("pulseboard_%s_%d.log", dateStr, len(matches)+1))
}

// Log writes a message to the log file
func (l *Logger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logInternal(message)
}

// Logf writes a formatted message to the log file
func (l *Logger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logInternal(fmt.Sprintf(format, args...))
}

func (l *Logger) logInternal(message string) {
	if l.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, message)
}

// Close writes the session trailer and closes the log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.logInternal("PulseBoard session ended")
		l.file.Close()
		l.file = nil
	}
}
