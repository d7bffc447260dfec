package export

import (
	"fmt"
	"time"
)

// Encoder turns one snapshot (plus optional chart rasters) into a binary
// artifact for a single target format. Encoders never mutate the snapshot
// and must succeed when optional sections are empty.
type Encoder interface {
	Encode(snap *ExportSnapshot, charts map[string]ChartRaster, opts Options) (*Artifact, error)
}

// formatSpec binds a canonical format name to its file extension and MIME
// type.
type formatSpec struct {
	canonical string
	extension string
	mimeType  string
}

var formatSpecs = map[string]formatSpec{
	FormatJSON:        {FormatJSON, "json", "application/json"},
	FormatCSV:         {FormatCSV, "csv", "text/csv"},
	FormatExcel:       {FormatExcel, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	FormatPDF:         {FormatPDF, "pdf", "application/pdf"},
	FormatWord:        {FormatWord, "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FormatWordAlias:   {FormatWord, "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FormatSlides:      {FormatSlides, "pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	FormatSlidesAlias: {FormatSlides, "pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
}

// ResolveFormat maps a requested format string (including the docx/pptx
// aliases) to its canonical name, or ErrUnsupportedFormat.
func ResolveFormat(format string) (string, error) {
	spec, ok := formatSpecs[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return spec.canonical, nil
}

// MimeType returns the MIME type for a canonical format.
func MimeType(format string) string {
	return formatSpecs[format].mimeType
}

// BuildFileName produces the unique artifact name for one export:
// hr_dashboard_<complete|filtered>_<timestamp>.<ext>.
func BuildFileName(format string, opts Options, ts time.Time) string {
	spec := formatSpecs[format]
	return fmt.Sprintf("hr_dashboard_%s_%s.%s",
		opts.ExportTypeLabel(), ts.Format("20060102_150405"), spec.extension)
}

// EncoderSet holds one encoder per canonical format.
type EncoderSet struct {
	encoders map[string]Encoder
}

// NewEncoderSet builds the default encoder set.
func NewEncoderSet() *EncoderSet {
	return &EncoderSet{encoders: map[string]Encoder{
		FormatJSON:   NewJSONExportService(),
		FormatCSV:    NewCSVExportService(),
		FormatExcel:  NewExcelExportService(),
		FormatPDF:    NewPDFExportService(),
		FormatWord:   NewWordExportService(),
		FormatSlides: NewPPTExportService(),
	}}
}

// Replace swaps the encoder for one canonical format.
func (s *EncoderSet) Replace(format string, enc Encoder) {
	s.encoders[format] = enc
}

// For resolves the encoder for a requested format string. Unsupported
// formats are rejected here, before any encoding work begins.
func (s *EncoderSet) For(format string) (Encoder, string, error) {
	canonical, err := ResolveFormat(format)
	if err != nil {
		return nil, "", err
	}
	enc, ok := s.encoders[canonical]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return enc, canonical, nil
}
