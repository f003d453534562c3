package widget

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/starford/hieroscope/internal/models"
	"github.com/starford/hieroscope/internal/prefs"
)

// IconsPerDay is how many icons a widget shows.
const IconsPerDay = 4

// DefaultIcons are used when nothing has been chosen yet.
var DefaultIcons = []string{"1.png", "2.png", "3.png", "4.png"}

// Pool lists the icons a day's selection is drawn from.
type Pool interface {
	Icons() ([]string, error)
}

// StaticPool is a fixed list of icon names.
type StaticPool []string

func (p StaticPool) Icons() ([]string, error) { return p, nil }

// missingBuiltins are the numbers in 0..324 the host app ships no icon for.
var missingBuiltins = []int{
	5, 6, 7, 8, 9, 10, 11, 12, 13, 73, 75, 77, 79, 81, 83, 87, 89, 90, 91, 92,
	97, 99, 100, 102, 103, 108, 131, 134, 135, 183,
}

// BuiltinPool returns the icon names bundled with the host app.
func BuiltinPool() StaticPool {
	return lo.Map(lo.Without(lo.Range(325), missingBuiltins...), func(i int, _ int) string {
		return fmt.Sprintf("%d.png", i)
	})
}

// DirPool lists the .png files in a directory.
type DirPool string

func (d DirPool) Icons() ([]string, error) {
	entries, err := os.ReadDir(string(d))
	if err != nil {
		return nil, fmt.Errorf("widget: list icons: %w", err)
	}
	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png")
	})
	sort.Strings(names)
	return names, nil
}

// IconPicker chooses IconsPerDay icons once per calendar day and caches the
// choice in the preference store. Only the clock's current day is cached;
// other days get a selection derived from the date that is never stored.
type IconPicker struct {
	prefs *prefs.Preferences
	pool  Pool
	now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewIconPicker creates an IconPicker. A nil rnd uses a randomly seeded
// source and a nil now uses time.Now.
func NewIconPicker(p *prefs.Preferences, pool Pool, rnd *rand.Rand, now func() time.Time) *IconPicker {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &IconPicker{prefs: p, pool: pool, rnd: rnd, now: now}
}

// Icons returns the icons for the day containing at.
func (ip *IconPicker) Icons(ctx context.Context, at time.Time) ([]string, error) {
	if !sameDay(ip.now(), at) {
		return ip.forDate(at)
	}

	ip.mu.Lock()
	defer ip.mu.Unlock()

	if sel, ok := ip.prefs.IconSelection(ctx); ok && sameDay(sel.UpdatedAt, at) {
		if len(sel.Icons) == 0 {
			return append([]string(nil), DefaultIcons...), nil
		}
		return sel.Icons, nil
	}

	names, err := ip.pool.Icons()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return append([]string(nil), DefaultIcons...), nil
	}
	chosen := pick(names, ip.rnd)
	if err := ip.prefs.SetIconSelection(ctx, models.IconSelection{Icons: chosen, UpdatedAt: at}); err != nil {
		return nil, err
	}
	return chosen, nil
}

// forDate picks icons for a day other than today, seeded by the date so
// repeated calls agree.
func (ip *IconPicker) forDate(at time.Time) ([]string, error) {
	names, err := ip.pool.Icons()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return append([]string(nil), DefaultIcons...), nil
	}
	y, m, d := at.Date()
	seed := uint64(y)*10000 + uint64(m)*100 + uint64(d)
	return pick(names, rand.New(rand.NewPCG(seed, seed))), nil
}

func pick(names []string, rnd *rand.Rand) []string {
	shuffled := append([]string(nil), names...)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:min(IconsPerDay, len(shuffled))]
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
