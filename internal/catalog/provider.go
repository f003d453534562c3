// Package catalog loads and validates the almanac of season entries.
package catalog

import (
	"context"

	"github.com/starford/hieroscope/internal/models"
)

// Provider returns an already-validated, ordered catalog.
type Provider interface {
	Load(ctx context.Context) ([]models.SeasonEntry, error)
}

// Static serves a fixed in-memory catalog.
type Static []models.SeasonEntry

// Load returns a copy of the entries.
func (s Static) Load(_ context.Context) ([]models.SeasonEntry, error) {
	out := make([]models.SeasonEntry, len(s))
	copy(out, s)
	return out, nil
}
