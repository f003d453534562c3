package season

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/hieroscope/internal/catalog"
	"github.com/starford/hieroscope/internal/models"
)

// Resolver binds Resolve to a catalog provider. Catalog failures are logged
// and degrade to the empty result.
type Resolver struct {
	provider catalog.Provider
	logger   *slog.Logger
}

// NewResolver creates a Resolver reading entries from provider.
func NewResolver(provider catalog.Provider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{provider: provider, logger: logger}
}

// Resolve loads the catalog and resolves the season in effect at at.
func (r *Resolver) Resolve(ctx context.Context, at time.Time, detail models.DetailLevel) models.ResolvedSeason {
	entries, err := r.provider.Load(ctx)
	if err != nil {
		r.logger.Warn("season: catalog unavailable", slog.String("error", err.Error()))
		return models.ResolvedSeason{}
	}
	return Resolve(entries, at, detail)
}
