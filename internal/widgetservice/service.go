// Package widgetservice coordinates the catalog, preferences and widget
// rendering for the outer surfaces (HTTP, MCP, CLI).
package widgetservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/catalog"
	"github.com/starford/hieroscope/internal/models"
	"github.com/starford/hieroscope/internal/prefs"
	"github.com/starford/hieroscope/internal/season"
	"github.com/starford/hieroscope/internal/widget"
)

// Event kinds passed to the notifier.
const (
	EventPreferenceUpdated = "preference.updated"
	EventCatalogUpdated    = "catalog.updated"
)

// Notifier is told about changes that should make widgets reload.
type Notifier func(kind string, data map[string]string)

// Service is the application facade.
type Service struct {
	provider  catalog.Provider
	resolver  *season.Resolver
	prefs     *prefs.Preferences
	renderer  *widget.Renderer
	scheduler widget.Scheduler
	icons     *widget.IconPicker
	notify    Notifier
	now       func() time.Time

	// seenMu serializes option writes with store polls so a local write
	// is announced once.
	seenMu sync.Mutex
	seen   models.DisplayOption
}

// Deps groups the collaborators of a Service.
type Deps struct {
	Provider  catalog.Provider
	Prefs     *prefs.Preferences
	Resolver  *season.Resolver
	Renderer  *widget.Renderer
	Scheduler widget.Scheduler
	Icons     *widget.IconPicker
	Notify    Notifier
	Now       func() time.Time
}

// New creates a Service. Notify and Now are optional.
func New(d Deps) *Service {
	s := &Service{
		provider:  d.Provider,
		resolver:  d.Resolver,
		prefs:     d.Prefs,
		renderer:  d.Renderer,
		scheduler: d.Scheduler,
		icons:     d.Icons,
		notify:    d.Notify,
		now:       d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.notify == nil {
		s.notify = func(string, map[string]string) {}
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Season resolves the season in effect at at.
func (s *Service) Season(ctx context.Context, at time.Time, detail models.DetailLevel) models.ResolvedSeason {
	return s.resolver.Resolve(ctx, at, detail)
}

// Catalog returns the full validated catalog.
func (s *Service) Catalog(ctx context.Context) ([]models.SeasonEntry, error) {
	return s.provider.Load(ctx)
}

// Entry returns the catalog entry with the given id.
func (s *Service) Entry(ctx context.Context, id string) (models.SeasonEntry, error) {
	entries, err := s.provider.Load(ctx)
	if err != nil {
		return models.SeasonEntry{}, err
	}
	e, ok := lo.Find(entries, func(e models.SeasonEntry) bool { return e.ID == id })
	if !ok {
		return models.SeasonEntry{}, fmt.Errorf("season %q: %w", id, apperr.ErrNotFound)
	}
	return e, nil
}

// DisplayOption returns the stored display option.
func (s *Service) DisplayOption(ctx context.Context) models.DisplayOption {
	return s.prefs.DisplayOption(ctx)
}

// SetDisplayOption stores opt and asks widgets to reload.
func (s *Service) SetDisplayOption(ctx context.Context, opt models.DisplayOption) error {
	s.seenMu.Lock()
	if err := s.prefs.SetDisplayOption(ctx, opt); err != nil {
		s.seenMu.Unlock()
		return err
	}
	s.seen = opt
	s.seenMu.Unlock()
	s.notify(EventPreferenceUpdated, map[string]string{"displayOption": string(opt)})
	return nil
}

// PollDisplayOption reads the stored option and notifies when it differs
// from the last one this service wrote or saw, which means another process
// sharing the store changed it. The first poll only records a baseline.
func (s *Service) PollDisplayOption(ctx context.Context) bool {
	s.seenMu.Lock()
	opt := s.prefs.DisplayOption(ctx)
	changed := s.seen != "" && opt != s.seen
	s.seen = opt
	s.seenMu.Unlock()

	if changed {
		s.notify(EventPreferenceUpdated, map[string]string{"displayOption": string(opt), "source": "store"})
	}
	return changed
}

// WatchDisplayOption polls the store every interval until ctx is done.
func (s *Service) WatchDisplayOption(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	s.PollDisplayOption(ctx)
	logger.Info("prefs: polling display option", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.PollDisplayOption(ctx) {
				logger.Info("prefs: display option changed externally",
					slog.String("display_option", string(s.DisplayOption(ctx))))
			}
		}
	}
}

// CatalogChanged asks widgets to reload after the catalog changed on disk.
func (s *Service) CatalogChanged(kind, path string) {
	s.notify(EventCatalogUpdated, map[string]string{"kind": kind, "path": path})
}

// Render returns the widget text for the stored option.
func (s *Service) Render(ctx context.Context, size models.WidgetSize, at time.Time) string {
	return s.renderer.Text(ctx, s.prefs.DisplayOption(ctx), size, at)
}

// Icons returns the icons for the day containing at.
func (s *Service) Icons(ctx context.Context, at time.Time) ([]string, error) {
	return s.icons.Icons(ctx, at)
}

// Timeline renders every scheduled refresh in the window starting at at.
// Icons rotate by one position per entry after the first.
func (s *Service) Timeline(ctx context.Context, size models.WidgetSize, at time.Time) (*models.Timeline, error) {
	icons, err := s.icons.Icons(ctx, at)
	if err != nil {
		return nil, err
	}
	opt := s.prefs.DisplayOption(ctx)
	instants, reloadAfter := s.scheduler.Schedule(at)

	entries := lo.Map(instants, func(t time.Time, i int) models.TimelineEntry {
		return models.TimelineEntry{
			Date:  t,
			Text:  s.renderer.Text(ctx, opt, size, t),
			Icons: widget.Rotate(icons, i),
		}
	})
	return &models.Timeline{Entries: entries, ReloadAfter: reloadAfter}, nil
}
