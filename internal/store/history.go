// Package store keeps a local SQLite history of search submissions so a
// designer can revisit earlier workflow proposals without re-running the
// pipeline. History is a convenience: failures here are logged and never
// block a submission.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"yana/internal/logging"
	"yana/internal/workflow"
)

// Entry is one recorded submission.
type Entry struct {
	ID          int64
	CreatedAt   time.Time
	Query       string
	ServiceName string
	FlowCount   int
	ScreenCount int
	Raw         []byte // full response JSON
}

// History is the submission log. Safe for use from the single UI loop;
// the database handle serializes anything else.
type History struct {
	db   *sql.DB
	path string
}

// Open initializes the history database at the given path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	h := &History{db: db, path: path}
	if err := h.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		query TEXT NOT NULL,
		service_name TEXT,
		flow_count INTEGER DEFAULT 0,
		screen_count INTEGER DEFAULT 0,
		raw TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Save records a successful submission.
func (h *History) Save(query string, result *workflow.Result) (int64, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	res, err := h.db.Exec(
		`INSERT INTO submissions (query, service_name, flow_count, screen_count, raw)
		 VALUES (?, ?, ?, ?, ?)`,
		query, result.Service.Name, len(result.ScreenFlows), len(result.Screens), string(raw),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save submission: %w", err)
	}
	id, _ := res.LastInsertId()
	logging.Store("saved submission id=%d flows=%d screens=%d", id, len(result.ScreenFlows), len(result.Screens))
	return id, nil
}

// Recent returns the latest n submissions, newest first, without the raw
// payload (listing only).
func (h *History) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := h.db.Query(
		`SELECT id, created_at, query, service_name, flow_count, screen_count
		 FROM submissions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Query, &e.ServiceName, &e.FlowCount, &e.ScreenCount); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads one submission including the raw response.
func (h *History) Get(id int64) (*Entry, error) {
	var e Entry
	var raw string
	err := h.db.QueryRow(
		`SELECT id, created_at, query, service_name, flow_count, screen_count, raw
		 FROM submissions WHERE id = ?`, id).
		Scan(&e.ID, &e.CreatedAt, &e.Query, &e.ServiceName, &e.FlowCount, &e.ScreenCount, &raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	e.Raw = []byte(raw)
	return &e, nil
}

// Latest returns the most recent submission, or nil when the history is
// empty.
func (h *History) Latest() (*Entry, error) {
	var id int64
	err := h.db.QueryRow(`SELECT id FROM submissions ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest submission: %w", err)
	}
	return h.Get(id)
}

// Close closes the database handle.
func (h *History) Close() error {
	return h.db.Close()
}
