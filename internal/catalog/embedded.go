package catalog

import (
	"context"
	_ "embed"

	"github.com/starford/hieroscope/internal/models"
)

//go:embed content.json
var bundled []byte

// Bundled returns the raw catalog document compiled into the binary.
func Bundled() []byte {
	out := make([]byte, len(bundled))
	copy(out, bundled)
	return out
}

// Embedded serves the bundled 24-sekki catalog.
type Embedded struct{}

// Load parses the bundled catalog.
func (Embedded) Load(_ context.Context) ([]models.SeasonEntry, error) {
	res, err := Parse(bundled, FormatJSON)
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}
