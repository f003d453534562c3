package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/models"
)

// Preferences reads and writes typed values on top of a Store.
type Preferences struct {
	store  Store
	logger *slog.Logger
}

// New wraps store.
func New(store Store, logger *slog.Logger) *Preferences {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preferences{store: store, logger: logger}
}

// DisplayOption returns the stored option. Missing or unknown values, and
// store failures, read back as the default option.
func (p *Preferences) DisplayOption(ctx context.Context) models.DisplayOption {
	v, ok, err := p.store.Get(ctx, KeyDisplayOption)
	if err != nil {
		p.logger.Warn("prefs: read display option failed", slog.String("error", err.Error()))
		return models.DefaultDisplayOption
	}
	if !ok {
		return models.DefaultDisplayOption
	}
	return models.ParseDisplayOption(v)
}

// SetDisplayOption stores opt. Unknown options are rejected.
func (p *Preferences) SetDisplayOption(ctx context.Context, opt models.DisplayOption) error {
	if !opt.Valid() {
		return fmt.Errorf("prefs: %q: %w", opt, apperr.ErrInvalidOption)
	}
	return p.store.Set(ctx, KeyDisplayOption, string(opt))
}

// IconSelection returns the cached icon selection. ok is false when nothing
// usable is cached.
func (p *Preferences) IconSelection(ctx context.Context) (sel models.IconSelection, ok bool) {
	rawDate, found, err := p.store.Get(ctx, KeyLastUpdateDate)
	if err != nil || !found {
		return models.IconSelection{}, false
	}
	updated, err := time.Parse(time.RFC3339, rawDate)
	if err != nil {
		p.logger.Warn("prefs: bad icon update date", slog.String("value", rawDate))
		return models.IconSelection{}, false
	}
	sel.UpdatedAt = updated

	rawIcons, found, err := p.store.Get(ctx, KeyLastChosenIcons)
	if err != nil || !found {
		return sel, true
	}
	if err := json.Unmarshal([]byte(rawIcons), &sel.Icons); err != nil {
		p.logger.Warn("prefs: bad icon list", slog.String("error", err.Error()))
		sel.Icons = nil
	}
	return sel, true
}

// SetIconSelection caches sel.
func (p *Preferences) SetIconSelection(ctx context.Context, sel models.IconSelection) error {
	icons, err := json.Marshal(sel.Icons)
	if err != nil {
		return fmt.Errorf("prefs: encode icons: %w", err)
	}
	if err := p.store.Set(ctx, KeyLastChosenIcons, string(icons)); err != nil {
		return err
	}
	return p.store.Set(ctx, KeyLastUpdateDate, sel.UpdatedAt.Format(time.RFC3339))
}
