package main

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"pulseboard/database"
	"pulseboard/export"
)

// ProgressStage identifies one step of the fixed export progress sequence.
type ProgressStage int

const (
	StageIdle ProgressStage = iota
	StageStarted
	StageNormalized
	StageEncoded
	StageSaved
)

// String returns the stage name for logging and notifications.
func (s ProgressStage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageNormalized:
		return "normalized"
	case StageEncoded:
		return "encoded"
	case StageSaved:
		return "saved"
	default:
		return "idle"
	}
}

// ProgressEvent is one structured progress report. Percent is fixed per
// stage so callers can assert the exact sequence.
type ProgressEvent struct {
	Stage   ProgressStage `json:"stage"`
	Percent int           `json:"percent"`
	Message string        `json:"message"`
}

// Notifier is the toast/notification sink.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// FileSaver persists a finished artifact and returns its final path.
type FileSaver interface {
	Save(fileName string, payload []byte) (string, error)
}

// HistoryStore records completed exports.
type HistoryStore interface {
	Append(entry database.ExportHistoryEntry) (string, error)
}

// ExportFacadeService is the single entry point of the export pipeline:
// it normalizes the raw dashboard data, optionally captures charts,
// invokes the format encoder, saves the artifact and records history.
type ExportFacadeService struct {
	normalizer *export.Normalizer
	encoders   *export.EncoderSet
	capture    *export.RasterCapture
	saver      FileSaver
	notifier   Notifier
	history    HistoryStore
	logger     func(string)

	onProgress   func(ProgressEvent)
	stagePause   time.Duration
	chartIDs     []string
	organization string
}

// NewExportFacadeService creates the export facade. capture, notifier and
// history may be nil; the corresponding steps are then skipped.
func NewExportFacadeService(saver FileSaver, notifier Notifier, history HistoryStore, logger func(string)) *ExportFacadeService {
	return &ExportFacadeService{
		normalizer: export.NewNormalizer(),
		encoders:   export.NewEncoderSet(),
		saver:      saver,
		notifier:   notifier,
		history:    history,
		logger:     logger,
		stagePause: 250 * time.Millisecond,
		chartIDs:   defaultChartIDs(),
	}
}

// defaultChartIDs lists the dashboard charts considered for embedding.
func defaultChartIDs() []string {
	return []string{
		"employee-distribution",
		"department-headcount",
		"payroll-trend",
		"task-completion",
	}
}

// Name returns the service name
func (s *ExportFacadeService) Name() string {
	return "export"
}

// Initialize logs the supported formats
func (s *ExportFacadeService) Initialize(ctx context.Context) error {
	s.log("ExportFacadeService initialized (json, csv, excel, pdf, word, powerpoint)")
	return nil
}

// Shutdown closes the export service (no-op)
func (s *ExportFacadeService) Shutdown() error {
	return nil
}

// SetNormalizer replaces the normalizer (tests inject a fixed clock).
func (s *ExportFacadeService) SetNormalizer(n *export.Normalizer) {
	s.normalizer = n
}

// SetEncoderSet replaces the encoder set.
func (s *ExportFacadeService) SetEncoderSet(e *export.EncoderSet) {
	s.encoders = e
}

// SetOrganization sets the company name used when the raw dashboard data
// carries none of its own.
func (s *ExportFacadeService) SetOrganization(name string) {
	s.organization = name
}

// SetFileSaver replaces the artifact saver.
func (s *ExportFacadeService) SetFileSaver(saver FileSaver) {
	s.saver = saver
}

// SetChartCapture wires the chart capture used for PDF exports.
func (s *ExportFacadeService) SetChartCapture(c *export.RasterCapture) {
	s.capture = c
}

// SetChartIDs overrides which charts are captured for embedding.
func (s *ExportFacadeService) SetChartIDs(ids []string) {
	s.chartIDs = ids
}

// SetProgressHandler registers the structured progress event sink.
func (s *ExportFacadeService) SetProgressHandler(fn func(ProgressEvent)) {
	s.onProgress = fn
}

// SetStagePause overrides the fixed pause between progress stages.
// Tests set it to zero.
func (s *ExportFacadeService) SetStagePause(d time.Duration) {
	s.stagePause = d
}

func (s *ExportFacadeService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

func (s *ExportFacadeService) progress(stage ProgressStage, percent int, message string) {
	if s.onProgress != nil {
		s.onProgress(ProgressEvent{Stage: stage, Percent: percent, Message: message})
	}
	if stage != StageIdle && s.stagePause > 0 {
		time.Sleep(s.stagePause)
	}
}

func (s *ExportFacadeService) notifyError(format string, err error) {
	if s.notifier != nil {
		s.notifier.Error(fmt.Sprintf("Export to %s failed: %v", format, err))
	}
}

// Export runs the whole pipeline for one format. On any failure the
// progress is reset, an error notification names the format, and no
// history entry is written.
func (s *ExportFacadeService) Export(format string, raw map[string]any, user string, lastUpdated time.Time, opts export.Options) error {
	if raw == nil {
		err := WrapError("export", "Export", export.ErrMissingData)
		s.notifyError(format, export.ErrMissingData)
		return err
	}

	// Unsupported formats are rejected before any work happens.
	encoder, canonical, err := s.encoders.For(format)
	if err != nil {
		s.notifyError(format, err)
		return WrapError("export", "Export", err)
	}

	s.log(fmt.Sprintf("[EXPORT] %s export started by %s", canonical, user))
	s.progress(StageStarted, 0, fmt.Sprintf("Preparing %s export", canonical))

	snap := s.normalizer.Normalize(raw, user, lastUpdated, canonical)
	if s.organization != "" && (snap.Configuration.CompanyName == "" || snap.Configuration.CompanyName == "N/A") {
		snap.Configuration.CompanyName = s.organization
	}
	s.progress(StageNormalized, 25, "Dashboard data normalized")

	var charts map[string]export.ChartRaster
	if canonical == export.FormatPDF && opts.IncludeCharts && s.capture != nil {
		charts = s.capture.CaptureAll(s.chartIDs)
		s.log(fmt.Sprintf("[EXPORT] captured %d of %d charts", len(charts), len(s.chartIDs)))
	}

	artifact, err := encoder.Encode(&snap, charts, opts)
	if err != nil {
		s.progress(StageIdle, 0, "")
		s.notifyError(canonical, err)
		return WrapError("export", "Export", &export.EncodingError{Format: canonical, Err: err})
	}
	snap.ExportStats.ExportSize = int64(len(artifact.Payload))
	s.progress(StageEncoded, 75, fmt.Sprintf("Encoded %s (%d bytes)", artifact.FileName, len(artifact.Payload)))

	savedPath := artifact.FileName
	if s.saver != nil {
		savedPath, err = s.saver.Save(artifact.FileName, artifact.Payload)
		if err != nil {
			s.progress(StageIdle, 0, "")
			s.notifyError(canonical, err)
			return WrapError("export", "Export", err)
		}
	}
	s.progress(StageSaved, 100, fmt.Sprintf("Saved %s", savedPath))

	if s.history != nil {
		sum := md5.Sum(artifact.Payload)
		entry := database.ExportHistoryEntry{
			FileName:    artifact.FileName,
			Format:      canonical,
			SizeBytes:   int64(len(artifact.Payload)),
			Checksum:    hex.EncodeToString(sum[:]),
			RecordCount: snap.ExportStats.TotalRecordsExported,
			User:        user,
			Description: fmt.Sprintf("%s export (%s)", canonical, opts.ExportTypeLabel()),
		}
		if _, err := s.history.Append(entry); err != nil {
			// A history write failure does not undo a delivered export.
			s.log(fmt.Sprintf("[EXPORT] WARN: history write failed: %v", err))
		}
	}

	if s.notifier != nil {
		s.notifier.Success(fmt.Sprintf("Export complete: %s", artifact.FileName))
	}
	s.log(fmt.Sprintf("[EXPORT] %s export finished: %s", canonical, savedPath))
	return nil
}
