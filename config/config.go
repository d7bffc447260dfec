package config

// RowCaps overrides the built-in per-format employee table limits for
// the page-constrained formats. Zero means use the format default.
type RowCaps struct {
	PDF    int `json:"pdf,omitempty"`
	Word   int `json:"word,omitempty"`
	Slides int `json:"slides,omitempty"`
}

// Config structure
type Config struct {
	Organization    string  `json:"organization"`      // Label printed on report covers
	DefaultUser     string  `json:"defaultUser"`       // Used when no exporting user is supplied
	Environment     string  `json:"environment"`       // production, staging, development
	OutputDir       string  `json:"outputDir"`         // Where export artifacts are saved
	DataDir         string  `json:"dataDir"`           // Holds the sqlite database and logs
	HistoryLimit    int     `json:"historyLimit"`      // Retained export history entries
	IncludeCharts   bool    `json:"includeCharts"`     // Default for chart embedding in PDF exports
	DetailedLog     bool    `json:"detailedLog"`       // Enables per-stage progress logging
	RowCaps         RowCaps `json:"rowCaps,omitempty"` // Per-format row cap overrides
	PerformanceSeed int64   `json:"performanceSeed"`   // Seeds the simulated performance column; 0 = time-based
}

// Validate clamps out-of-range fields to sensible values.
func (c *Config) Validate() {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 10
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.RowCaps.PDF < 0 {
		c.RowCaps.PDF = 0
	}
	if c.RowCaps.Word < 0 {
		c.RowCaps.Word = 0
	}
	if c.RowCaps.Slides < 0 {
		c.RowCaps.Slides = 0
	}
}
