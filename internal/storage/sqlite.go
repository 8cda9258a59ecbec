package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder keeps interaction events in a SQLite database. database/sql
// serializes access, so no extra locking is needed.
type SQLiteRecorder struct {
	db *sql.DB
}

func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			request_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			user_name TEXT NOT NULL,
			user_message TEXT NOT NULL,
			assistant_response TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id);
	`)
	return err
}

func (r *SQLiteRecorder) AppendInteraction(event Event) error {
	_, err := r.db.Exec(
		`INSERT INTO interactions (timestamp, request_id, user_id, user_name, user_message, assistant_response)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		event.RequestID, event.UserID, event.UserName, event.UserMessage, event.AssistantResponse,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) LoadInteractions() ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT timestamp, request_id, user_id, user_name, user_message, assistant_response
		 FROM interactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var ts string
		if err := rows.Scan(&ts, &ev.RequestID, &ev.UserID, &ev.UserName, &ev.UserMessage, &ev.AssistantResponse); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return events, nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
