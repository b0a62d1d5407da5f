// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errlog appends per-page conversion failures and warnings to
// <log_dir>/conversion_errors.log.
package errlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// FileName is the error log name inside the log directory.
const FileName = "conversion_errors.log"

const timeFormat = "2006-01-02 15:04:05"

// Log is an append-only error log. It is safe for concurrent use.
type Log struct {
	logger hclog.Logger
	closer io.Closer
	path   string
}

// Open opens dir/conversion_errors.log for appending, creating dir if
// needed.
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening error log: %w", err)
	}

	l := New(f)
	l.closer = f
	l.path = path
	return l, nil
}

// New returns a Log writing to w. Close does not close w.
func New(w io.Writer) *Log {
	return &Log{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:       "pukimd",
			Output:     w,
			Level:      hclog.Warn,
			TimeFormat: timeFormat,
		}),
	}
}

// Discard returns a Log that drops everything.
func Discard() *Log {
	return &Log{logger: hclog.NewNullLogger()}
}

// Path returns the log file path, or "" for logs not backed by a file.
func (l *Log) Path() string {
	return l.path
}

// Failure records that page could not be converted.
func (l *Log) Failure(page string, err error) {
	l.logger.Error("conversion failed", "page", page, "error", err)
}

// Warn records a non-fatal problem with page.
func (l *Log) Warn(page, msg string, args ...any) {
	l.logger.Warn(msg, append([]any{"page", page}, args...)...)
}

// Logger exposes the underlying logger for components that take an
// hclog.Logger.
func (l *Log) Logger() hclog.Logger {
	return l.logger
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
