package export

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONExportService serializes the entire snapshot verbatim. This is the
// reference format: no data loss, pretty-printed for debugging.
type JSONExportService struct{}

// NewJSONExportService creates a new JSON export service.
func NewJSONExportService() *JSONExportService {
	return &JSONExportService{}
}

// Encode marshals the snapshot with two-space indentation.
func (s *JSONExportService) Encode(snap *ExportSnapshot, _ map[string]ChartRaster, opts Options) (*Artifact, error) {
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return &Artifact{
		Payload:  payload,
		FileName: BuildFileName(FormatJSON, opts, time.Now()),
		MimeType: MimeType(FormatJSON),
	}, nil
}
