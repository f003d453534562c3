package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/models"
)

// File reads the catalog from a JSON or YAML file on every Load.
type File struct {
	path   string
	format Format
	logger *slog.Logger
}

// NewFile creates a provider for the catalog at path.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	return &File{path: path, format: FormatFromPath(path), logger: logger}
}

// Path returns the catalog file path.
func (f *File) Path() string { return f.path }

// Load reads and parses the catalog file. Skipped rows are logged.
func (f *File) Load(_ context.Context) ([]models.SeasonEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w: %v", f.path, apperr.ErrResourceUnavailable, err)
	}
	res, err := Parse(data, f.format)
	if err != nil {
		return nil, err
	}
	for _, skipped := range res.Skipped {
		f.logger.Warn("catalog: skipped entry",
			slog.String("path", f.path),
			slog.Int("index", skipped.Index),
			slog.String("id", skipped.ID),
			slog.String("error", skipped.Err.Error()))
	}
	return res.Entries, nil
}

// WriteFile atomically writes content to path: tmp file → fsync → rename.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("catalog: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".hieroscope-tmp-*")
	if err != nil {
		return fmt.Errorf("catalog: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("catalog: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("catalog: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("catalog: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("catalog: rename: %w", err)
	}
	success = true
	return nil
}
