package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit is how many export records are retained. Older
// entries are pruned on every append.
const DefaultHistoryLimit = 10

// ExportHistoryEntry is one completed export.
type ExportHistoryEntry struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Format      string    `json:"format"`
	SizeBytes   int64     `json:"size_bytes"`
	Checksum    string    `json:"checksum"`
	RecordCount int       `json:"record_count"`
	User        string    `json:"user"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportHistoryService persists the bounded export history
type ExportHistoryService struct {
	db    *sql.DB
	limit int
}

// NewExportHistoryService creates a new export history service
func NewExportHistoryService(db *sql.DB) *ExportHistoryService {
	return &ExportHistoryService{db: db, limit: DefaultHistoryLimit}
}

// NewExportHistoryServiceWithLimit overrides the retention limit.
func NewExportHistoryServiceWithLimit(db *sql.DB, limit int) *ExportHistoryService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ExportHistoryService{db: db, limit: limit}
}

// Append records a completed export and prunes entries beyond the
// retention limit, newest first.
func (s *ExportHistoryService) Append(entry ExportHistoryEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO export_history (id, file_name, format, size_bytes, checksum, record_count, user, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.FileName, entry.Format, entry.SizeBytes, entry.Checksum,
		entry.RecordCount, entry.User, entry.Description, entry.CreatedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to insert export history entry: %w", err)
	}

	// created_at ties are broken by id so the prune is deterministic.
	_, err = tx.Exec(`
		DELETE FROM export_history WHERE id NOT IN (
			SELECT id FROM export_history ORDER BY created_at DESC, id DESC LIMIT ?
		)`, s.limit)
	if err != nil {
		return "", fmt.Errorf("failed to prune export history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit export history entry: %w", err)
	}
	return entry.ID, nil
}

// List returns the retained history, newest first.
func (s *ExportHistoryService) List() ([]ExportHistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, file_name, format, size_bytes, checksum, record_count, user, description, created_at
		FROM export_history ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query export history: %w", err)
	}
	defer rows.Close()

	var entries []ExportHistoryEntry
	for rows.Next() {
		var e ExportHistoryEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.FileName, &e.Format, &e.SizeBytes, &e.Checksum,
			&e.RecordCount, &e.User, &e.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan export history entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export history: %w", err)
	}
	return entries, nil
}

// Clear removes all history entries.
func (s *ExportHistoryService) Clear() error {
	if _, err := s.db.Exec("DELETE FROM export_history"); err != nil {
		return fmt.Errorf("failed to clear export history: %w", err)
	}
	return nil
}
