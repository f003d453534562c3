// Package widget renders widget text, schedules refreshes and picks icons.
package widget

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/starford/hieroscope/internal/models"
)

// MantraPlaceholder is shown when no mantras are configured.
const MantraPlaceholder = "Mantra of the day: (Your mantra here)"

// SeasonSource resolves the season in effect at a given time.
type SeasonSource interface {
	Resolve(ctx context.Context, at time.Time, detail models.DetailLevel) models.ResolvedSeason
}

// Renderer produces the text a widget shows for a display option.
type Renderer struct {
	seasons SeasonSource
	mantras []string
}

// NewRenderer creates a Renderer. mantras may be empty.
func NewRenderer(seasons SeasonSource, mantras []string) *Renderer {
	return &Renderer{seasons: seasons, mantras: lo.Compact(mantras)}
}

// Text returns the widget text for opt at the given size and time.
func (r *Renderer) Text(ctx context.Context, opt models.DisplayOption, size models.WidgetSize, at time.Time) string {
	switch opt {
	case models.OptionDaysOfWeek:
		return at.Weekday().String()
	case models.OptionMantras:
		return r.mantra(at)
	default:
		return SeasonText(r.seasons.Resolve(ctx, at, size.Detail()), size)
	}
}

// SeasonText lays out a resolved season for a widget size. Blank fields are
// left out so the empty result renders as an empty string.
func SeasonText(s models.ResolvedSeason, size models.WidgetSize) string {
	var lines []string
	switch size {
	case models.SizeLarge:
		lines = []string{s.Symbol, s.ID, s.Notes}
	case models.SizeMedium:
		lines = []string{s.ID, s.Notes}
	default:
		lines = []string{s.ID}
	}
	return strings.Join(lo.Compact(lines), "\n")
}

func (r *Renderer) mantra(at time.Time) string {
	if len(r.mantras) == 0 {
		return MantraPlaceholder
	}
	return r.mantras[(at.YearDay()-1)%len(r.mantras)]
}
