// Package journal writes the durable, append-only run journal.
//
// Every line is a human-readable timestamp, an upper-case level and a message:
//
//	2026-01-02 15:04:05 INFO Running: Create restore point...
//	2026-01-02 15:04:06 ERROR command failed: ... error="Error: access denied"
package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout of journal lines.
const TimeFormat = "2006-01-02 15:04:05"

// DefaultPath returns $XDG_STATE_HOME/debloat/debloat.log, creating the directory.
func DefaultPath() (string, error) {
	return xdg.StateFile(filepath.Join("debloat", "debloat.log"))
}

// File is a ports.Journal backed by zerolog.
type File struct {
	logger zerolog.Logger
	closer io.Closer
}

// New writes journal lines to w.
func New(w io.Writer) *File {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: TimeFormat,
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprint(i))
		},
	}
	return &File{
		logger: zerolog.New(zerolog.SyncWriter(cw)).With().Timestamp().Logger(),
	}
}

// Open appends to the journal at path, creating parent directories.
// An empty path resolves to DefaultPath.
func Open(path string) (*File, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve journal path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := New(f)
	j.closer = f
	return j, nil
}

// Info appends an informational line.
func (j *File) Info(msg string) {
	j.logger.Info().Msg(msg)
}

// Error appends a failure line.
func (j *File) Error(msg string, err error) {
	j.logger.Error().Err(err).Msg(msg)
}

// Close releases the underlying file, if any.
func (j *File) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}
