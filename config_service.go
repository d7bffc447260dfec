package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pulseboard/config"
)

// ConfigProvider exposes read access to the application configuration
type ConfigProvider interface {
	GetConfig() (config.Config, error)
}

// ConfigPersister exposes write access to the application configuration
type ConfigPersister interface {
	SaveConfig(cfg config.Config) error
}

// ConfigService owns loading, defaulting and persisting the JSON
// configuration file. Implements ConfigProvider and ConfigPersister.
type ConfigService struct {
	storageDir string
	logger     func(string)
	callbacks  []func(config.Config)
	mu         sync.RWMutex
}

// NewConfigService creates a new ConfigService instance
func NewConfigService(logger func(string)) *ConfigService {
	return &ConfigService{
		logger:    logger,
		callbacks: make([]func(config.Config), 0),
	}
}

// Name returns the service name
func (cs *ConfigService) Name() string {
	return "config"
}

// Initialize ensures the storage directory exists
func (cs *ConfigService) Initialize(ctx context.Context) error {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return WrapError("config", "Initialize", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "Initialize", fmt.Errorf("failed to create storage dir: %w", err))
	}
	cs.log(fmt.Sprintf("ConfigService initialized, storage dir: %s", dir))
	return nil
}

// Shutdown closes the config service (no-op)
func (cs *ConfigService) Shutdown() error {
	return nil
}

// GetStorageDir returns the storage directory path (~/PulseBoard)
func (cs *ConfigService) GetStorageDir() (string, error) {
	cs.mu.RLock()
	sd := cs.storageDir
	cs.mu.RUnlock()

	if sd != "" {
		return sd, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError("config", "GetStorageDir", err)
	}
	return filepath.Join(home, "PulseBoard"), nil
}

// SetStorageDir overrides the storage directory (mainly for tests)
func (cs *ConfigService) SetStorageDir(dir string) {
	cs.mu.Lock()
	cs.storageDir = dir
	cs.mu.Unlock()
}

// GetConfigPath returns the config file path
func (cs *ConfigService) GetConfigPath() (string, error) {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// defaultConfig builds the configuration used when no file exists yet.
func (cs *ConfigService) defaultConfig() (config.Config, error) {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Config{
		Organization:  "PulseBoard",
		DefaultUser:   "system",
		Environment:   "production",
		OutputDir:     filepath.Join(dir, "exports"),
		DataDir:       dir,
		HistoryLimit:  10,
		IncludeCharts: true,
	}, nil
}

// GetConfig loads the configuration from disk, applying defaults for
// missing fields.
func (cs *ConfigService) GetConfig() (config.Config, error) {
	path, err := cs.GetConfigPath()
	if err != nil {
		return config.Config{}, err
	}

	defaults, err := cs.defaultConfig()
	if err != nil {
		return config.Config{}, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, WrapError("config", "GetConfig", err)
	}

	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.Config{}, WrapError("config", "GetConfig", err)
	}

	// Apply defaults for empty fields
	if cfg.Organization == "" {
		cfg.Organization = defaults.Organization
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = defaults.DefaultUser
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	cfg.Validate()

	return cfg, nil
}

// SaveConfig validates and persists the configuration, then triggers
// all registered callbacks.
func (cs *ConfigService) SaveConfig(cfg config.Config) error {
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return WrapError("config", "SaveConfig", fmt.Errorf("failed to create output dir: %w", err))
		}
	}

	dir, err := cs.GetStorageDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to create storage dir: %w", err))
	}

	cfg.Validate()

	path := filepath.Join(dir, "config.json")
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to marshal config: %w", err))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to write config file: %w", err))
	}

	cs.log("Configuration saved to disk")

	cs.NotifyConfigChanged(cfg)

	return nil
}

// OnConfigChanged registers a configuration change callback
func (cs *ConfigService) OnConfigChanged(callback func(config.Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.callbacks = append(cs.callbacks, callback)
}

// NotifyConfigChanged invokes all registered configuration callbacks
func (cs *ConfigService) NotifyConfigChanged(cfg config.Config) {
	cs.mu.RLock()
	cbs := make([]func(config.Config), len(cs.callbacks))
	copy(cbs, cs.callbacks)
	cs.mu.RUnlock()

	for _, cb := range cbs {
		cb(cfg)
	}
}

func (cs *ConfigService) log(msg string) {
	if cs.logger != nil {
		cs.logger(msg)
	}
}
