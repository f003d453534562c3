package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/models"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the on-disk shape: { "sekki": [ ... ] }.
type document struct {
	Sekki *[]models.SeasonEntry `json:"sekki" yaml:"sekki"`
}

// RowError describes a catalog row that was skipped.
type RowError struct {
	Index int
	ID    string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Index, e.ID, e.Err)
}

func (e RowError) Unwrap() error { return apperr.ErrMalformedEntry }

// Result holds the output of parsing a catalog document.
type Result struct {
	Entries []models.SeasonEntry
	Skipped []RowError
}

// Parse decodes a catalog document and validates every row. Rows that fail
// validation are dropped and reported in Result.Skipped; a document that
// cannot be decoded, or has no "sekki" list, is ErrResourceUnavailable.
func Parse(data []byte, format Format) (*Result, error) {
	var doc document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w: %v", format, apperr.ErrResourceUnavailable, err)
	}
	if doc.Sekki == nil {
		return nil, fmt.Errorf("catalog: missing sekki list: %w", apperr.ErrResourceUnavailable)
	}

	res := &Result{Entries: make([]models.SeasonEntry, 0, len(*doc.Sekki))}
	for i, e := range *doc.Sekki {
		if err := ValidateEntry(e); err != nil {
			res.Skipped = append(res.Skipped, RowError{Index: i, ID: e.ID, Err: err})
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	return res, nil
}

// ValidateEntry checks that e has an id and a MM-DD start date.
func ValidateEntry(e models.SeasonEntry) error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.StartDate, validation.Required, validation.Date(models.StartDateLayout)),
	)
}
