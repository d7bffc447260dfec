package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"pulseboard/config"
	"pulseboard/database"
	"pulseboard/export"
	"pulseboard/logger"
)

// App wires configuration, logging, the database and the export services
// together.
type App struct {
	ctx      context.Context
	logger   *logger.Logger
	db       *sql.DB
	registry *ServiceRegistry

	configService *ConfigService
	exportService *ExportFacadeService
	history       *database.ExportHistoryService
	presets       *database.FilterPresetService
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{
		logger: logger.NewLogger(),
	}
}

// Startup initializes all services. It is safe to call Log before Startup;
// messages are dropped until the log file is open.
func (a *App) Startup(ctx context.Context) error {
	a.ctx = ctx

	a.configService = NewConfigService(a.Log)
	cfg, err := a.configService.GetConfig()
	if err != nil {
		return err
	}

	if err := a.logger.Init(cfg.DataDir); err != nil {
		// Logging is best effort; the export pipeline still works.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	a.Log("App Started")

	db, err := database.InitDB(cfg.DataDir)
	if err != nil {
		return WrapError("app", "Startup", err)
	}
	a.db = db
	a.history = database.NewExportHistoryServiceWithLimit(db, cfg.HistoryLimit)
	a.presets = database.NewFilterPresetService(db)

	saver := &DiskFileSaver{Dir: cfg.OutputDir}
	notifier := &LogNotifier{logger: a.Log}
	a.exportService = NewExportFacadeService(saver, notifier, a.history, a.Log)
	a.exportService.SetOrganization(cfg.Organization)
	if cfg.DetailedLog {
		a.exportService.SetProgressHandler(func(ev ProgressEvent) {
			a.Log(fmt.Sprintf("[PROGRESS] %s %d%% %s", ev.Stage, ev.Percent, ev.Message))
		})
	}
	if cfg.PerformanceSeed != 0 {
		a.exportService.SetEncoderSet(seededEncoderSet(cfg.PerformanceSeed))
	}

	a.registry = NewServiceRegistry(ctx, a.Log)
	if err := a.registry.RegisterCritical(a.configService); err != nil {
		return err
	}
	if err := a.registry.RegisterCritical(a.exportService); err != nil {
		return err
	}
	return a.registry.InitializeAll()
}

// seededEncoderSet builds an encoder set whose Excel encoder uses a fixed
// seed for the simulated performance column.
func seededEncoderSet(seed int64) *export.EncoderSet {
	set := export.NewEncoderSet()
	set.Replace(export.FormatExcel, export.NewExcelExportServiceWithSeed(seed))
	return set
}

// SetOutputDir redirects export artifacts to a different directory.
func (a *App) SetOutputDir(dir string) {
	a.exportService.SetFileSaver(&DiskFileSaver{Dir: dir})
}

// Shutdown closes all services, the database and the log file.
func (a *App) Shutdown() {
	if a.registry != nil {
		a.registry.ShutdownAll()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.logger.Close()
}

// Log writes a message to the application log file
func (a *App) Log(message string) {
	a.logger.Log(message)
}

// Export runs one export through the facade.
func (a *App) Export(format string, raw map[string]any, user string, opts export.Options) error {
	cfg, err := a.configService.GetConfig()
	if err != nil {
		return err
	}
	if user == "" {
		user = cfg.DefaultUser
	}
	if canonical, err := export.ResolveFormat(format); err == nil {
		opts = applyConfigDefaults(opts, cfg, canonical)
	}
	return a.exportService.Export(format, raw, user, timeNow(), opts)
}

// applyConfigDefaults fills export options the caller left unset from the
// configured defaults. Explicit caller values always win.
func applyConfigDefaults(opts export.Options, cfg config.Config, canonical string) export.Options {
	if !opts.IncludeCharts && cfg.IncludeCharts {
		opts.IncludeCharts = true
	}
	if opts.RowCapOverride == 0 {
		switch canonical {
		case export.FormatPDF:
			opts.RowCapOverride = cfg.RowCaps.PDF
		case export.FormatWord:
			opts.RowCapOverride = cfg.RowCaps.Word
		case export.FormatSlides:
			opts.RowCapOverride = cfg.RowCaps.Slides
		}
	}
	return opts
}

// ExportHistory returns the retained export history, newest first.
func (a *App) ExportHistory() ([]database.ExportHistoryEntry, error) {
	return a.history.List()
}

// SaveFilterPreset stores a named set of dashboard filters.
func (a *App) SaveFilterPreset(name string, filters map[string]string) (string, error) {
	return a.presets.Save(name, filters)
}

// FilterPresets returns all saved filter presets.
func (a *App) FilterPresets() ([]database.FilterPreset, error) {
	return a.presets.List()
}

// ApplyFilterPreset builds export options from a saved preset.
func (a *App) ApplyFilterPreset(name string) (export.Options, error) {
	p, err := a.presets.Get(name)
	if err != nil {
		return export.Options{}, err
	}
	opts := export.Options{IsFiltered: true, ExportType: export.ExportTypeFiltered}
	for field, value := range p.Filters {
		opts.ActiveFilters = append(opts.ActiveFilters, export.Filter{
			Name:  field,
			Field: field,
			Value: value,
		})
	}
	return opts, nil
}

// DiskFileSaver writes artifacts into a directory on the local disk.
type DiskFileSaver struct {
	Dir string
}

// Save writes the payload and returns the final path.
func (s *DiskFileSaver) Save(fileName string, payload []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", WrapOperationError("create output directory", err)
	}
	path := filepath.Join(s.Dir, fileName)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", WrapOperationErrorf("write export file %s", err, fileName)
	}
	return path, nil
}

// LogNotifier routes notifications into the application log.
type LogNotifier struct {
	logger func(string)
}

// Success logs a success notification
func (n *LogNotifier) Success(message string) {
	if n.logger != nil {
		n.logger("[NOTIFY] " + message)
	}
}

// Error logs an error notification
func (n *LogNotifier) Error(message string) {
	if n.logger != nil {
		n.logger("[NOTIFY] ERROR: " + message)
	}
}
