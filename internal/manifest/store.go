// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records every page conversion in a SQLite database so
// repeated batch runs can skip pages whose source has not changed.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pukimd/pkg/types"
)

// FileName is the manifest database name inside the log directory.
const FileName = "manifest.db"

// timeLayout is how timestamps are stored; RFC 3339 with nanoseconds keeps
// string comparison equal to time comparison.
const timeLayout = time.RFC3339Nano

// Store manages the manifest SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path, creating the parent
// directory and the schema if they do not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			source TEXT PRIMARY KEY,
			page TEXT NOT NULL,
			output TEXT,
			encoding TEXT,
			source_mod_time TEXT,
			status TEXT NOT NULL,
			converted_at TEXT,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_page ON pages(page)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_status ON pages(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Lookup returns the record stored for source, or nil when the source has
// never been recorded.
func (s *Store) Lookup(ctx context.Context, source string) (*types.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT source, page, output, encoding, source_mod_time, status, converted_at, error
		 FROM pages WHERE source = ?`, source)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", source, err)
	}
	return rec, nil
}

// Record inserts or replaces the entry for rec.Source. A zero ConvertedAt
// is set to the current time.
func (s *Store) Record(ctx context.Context, rec types.Record) error {
	if rec.Source == "" {
		return errors.New("record has no source")
	}
	if rec.ConvertedAt.IsZero() {
		rec.ConvertedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (source, page, output, encoding, source_mod_time, status, converted_at, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
			page=excluded.page, output=excluded.output, encoding=excluded.encoding,
			source_mod_time=excluded.source_mod_time, status=excluded.status,
			converted_at=excluded.converted_at, error=excluded.error`,
		rec.Source, rec.Page, rec.Output, rec.Encoding,
		formatTime(rec.SourceMod), string(rec.Status),
		formatTime(rec.ConvertedAt), rec.Error,
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", rec.Source, err)
	}

	return tx.Commit()
}

// Unchanged reports whether rec describes a successful conversion of a
// source whose modification time is still modTime.
func Unchanged(rec *types.Record, modTime time.Time) bool {
	if rec == nil || rec.Status != types.StatusConverted {
		return false
	}
	return rec.SourceMod.Equal(modTime)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*types.Record, error) {
	var rec types.Record
	var output, encoding, sourceMod, convertedAt, errText sql.NullString
	var status string
	if err := row.Scan(&rec.Source, &rec.Page, &output, &encoding,
		&sourceMod, &status, &convertedAt, &errText); err != nil {
		return nil, err
	}

	rec.Output = output.String
	rec.Encoding = encoding.String
	rec.SourceMod = parseTime(sourceMod.String)
	rec.Status = types.Status(status)
	rec.ConvertedAt = parseTime(convertedAt.String)
	rec.Error = errText.String
	return &rec, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
