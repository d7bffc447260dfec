package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FilterPreset is a saved set of dashboard filters that can be re-applied
// to a filtered export.
type FilterPreset struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Filters   map[string]string `json:"filters"`
	CreatedAt time.Time         `json:"created_at"`
}

// FilterPresetService persists named filter presets
type FilterPresetService struct {
	db *sql.DB
}

// NewFilterPresetService creates a new filter preset service
func NewFilterPresetService(db *sql.DB) *FilterPresetService {
	return &FilterPresetService{db: db}
}

// Save stores a preset, replacing any existing preset with the same name.
func (s *FilterPresetService) Save(name string, filters map[string]string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("preset name cannot be empty")
	}
	payload, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("failed to serialize filters: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO filter_presets (id, name, filters, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET filters = excluded.filters`,
		id, name, string(payload), time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to save filter preset: %w", err)
	}
	return id, nil
}

// Get returns the preset with the given name.
func (s *FilterPresetService) Get(name string) (*FilterPreset, error) {
	row := s.db.QueryRow(`
		SELECT id, name, filters, created_at FROM filter_presets WHERE name = ?`, name)

	var p FilterPreset
	var payload string
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Name, &payload, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("filter preset %q not found", name)
		}
		return nil, fmt.Errorf("failed to load filter preset: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &p.Filters); err != nil {
		return nil, fmt.Errorf("failed to parse filter preset: %w", err)
	}
	p.CreatedAt = time.UnixMilli(createdAt)
	return &p, nil
}

// List returns all presets ordered by name.
func (s *FilterPresetService) List() ([]FilterPreset, error) {
	rows, err := s.db.Query(`SELECT id, name, filters, created_at FROM filter_presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter presets: %w", err)
	}
	defer rows.Close()

	var presets []FilterPreset
	for rows.Next() {
		var p FilterPreset
		var payload string
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Name, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan filter preset: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &p.Filters); err != nil {
			return nil, fmt.Errorf("failed to parse filter preset %q: %w", p.Name, err)
		}
		p.CreatedAt = time.UnixMilli(createdAt)
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filter presets: %w", err)
	}
	return presets, nil
}

// Delete removes the preset with the given name.
func (s *FilterPresetService) Delete(name string) error {
	res, err := s.db.Exec("DELETE FROM filter_presets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete filter preset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("filter preset %q not found", name)
	}
	return nil
}
