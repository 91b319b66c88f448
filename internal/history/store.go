// Package history persists transpile runs in a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one transpile run.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Profile     string    `json:"profile,omitempty"`
	SourceBytes int       `json:"source_bytes"`
	OutputBytes int       `json:"output_bytes"`
	Matches     int       `json:"matches"`
	Blocked     bool      `json:"blocked"`
	Bypass      bool      `json:"bypass"`
	DurationMS  int64     `json:"duration_ms"`
}

// Store wraps the runs table. Safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns PHIGO_HISTORY_DB if set, else
// ~/.phigo/history/history.db.
func DefaultPath() string {
	if p := os.Getenv("PHIGO_HISTORY_DB"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".phigo", "history", "history.db")
}

// Open creates (or opens) the history database at path; an empty path uses
// DefaultPath.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		profile TEXT,
		source_bytes INTEGER,
		output_bytes INTEGER,
		matches INTEGER,
		blocked INTEGER,
		bypass INTEGER,
		duration_ms INTEGER
	);`)
	if err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// Save inserts a new run record.
func (s *Store) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO runs
		(timestamp, profile, source_bytes, output_bytes, matches, blocked, bypass, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(time.RFC3339),
		rec.Profile,
		rec.SourceBytes,
		rec.OutputBytes,
		rec.Matches,
		boolToInt(rec.Blocked),
		boolToInt(rec.Bypass),
		rec.DurationMS,
	)
	return err
}

// Records returns run entries, newest first. A non-empty search filters on
// profile name; limit 0 means no limit.
func (s *Store) Records(limit int, search string) ([]Record, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, profile, source_bytes, output_bytes, matches, blocked, bypass, duration_ms FROM runs")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE profile LIKE ?")
		args = append(args, "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var rec Record
		var ts string
		var blocked, bypass int
		if err := rows.Scan(&ts, &rec.Profile, &rec.SourceBytes, &rec.OutputBytes, &rec.Matches, &blocked, &bypass, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Blocked = blocked == 1
		rec.Bypass = bypass == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all run entries.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}

// ExportJSON writes the runs table to a JSONL file.
func (s *Store) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
