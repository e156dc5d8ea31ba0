// Package sqlite implements calendar.Store on an embedded SQLite database.
// Unlike the file backend, conflict checks and appends from multiple
// processes sharing one database funnel through SQLite's locking, so it is
// the recommended driver when more than one worker serves webhooks.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/callclerk/callclerk/calendar"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// Options configure the SQLite store.
type Options struct {
	// BusyTimeout bounds how long a write waits on a locked database.
	// Zero keeps the driver default.
	BusyTimeout time.Duration
}

// Store is a calendar.Store backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string, optFns ...func(o *Options)) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if opts.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns all meetings in insertion (id) order.
func (s *Store) List(ctx context.Context) ([]calendar.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT summary, start_at, end_at, attendees FROM meetings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := []calendar.Meeting{}
	for rows.Next() {
		var summary, startAt, endAt, attendees string
		if err := rows.Scan(&summary, &startAt, &endAt, &attendees); err != nil {
			return nil, err
		}
		m, err := decodeMeeting(summary, startAt, endAt, attendees)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Append inserts a meeting row. Durability is SQLite's business from here.
func (s *Store) Append(ctx context.Context, m calendar.Meeting) error {
	attendees := m.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	encoded, err := json.Marshal(attendees)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO meetings(summary, start_at, end_at, attendees) VALUES(?,?,?,?)`,
		m.Summary, m.Start.Format(time.RFC3339), m.End.Format(time.RFC3339), string(encoded),
	)
	return err
}

func decodeMeeting(summary, startAt, endAt, attendees string) (calendar.Meeting, error) {
	start, err := time.Parse(time.RFC3339, startAt)
	if err != nil {
		return calendar.Meeting{}, fmt.Errorf("decode meeting start %q: %w", startAt, err)
	}
	end, err := time.Parse(time.RFC3339, endAt)
	if err != nil {
		return calendar.Meeting{}, fmt.Errorf("decode meeting end %q: %w", endAt, err)
	}
	var att []string
	if err := json.Unmarshal([]byte(attendees), &att); err != nil {
		return calendar.Meeting{}, fmt.Errorf("decode meeting attendees: %w", err)
	}
	if att == nil {
		att = []string{}
	}
	return calendar.Meeting{Summary: summary, Start: start, End: end, Attendees: att}, nil
}
