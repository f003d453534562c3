package prefs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/models"
)

func newPrefs() (*Preferences, *Memory) {
	m := NewMemory()
	return New(m, slog.New(slog.NewJSONHandler(io.Discard, nil))), m
}

type brokenStore struct{ *Memory }

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func TestDisplayOption_DefaultsWhenMissing(t *testing.T) {
	p, _ := newPrefs()
	if got := p.DisplayOption(context.Background()); got != models.OptionSmallSeasons {
		t.Errorf("got %q, want Small Seasons", got)
	}
}

func TestDisplayOption_UnknownFallsBack(t *testing.T) {
	p, m := newPrefs()
	_ = m.Set(context.Background(), KeyDisplayOption, "Horoscopes")
	if got := p.DisplayOption(context.Background()); got != models.OptionSmallSeasons {
		t.Errorf("got %q, want Small Seasons", got)
	}
}

func TestDisplayOption_StoreErrorFallsBack(t *testing.T) {
	p := New(brokenStore{NewMemory()}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if got := p.DisplayOption(context.Background()); got != models.OptionSmallSeasons {
		t.Errorf("got %q, want Small Seasons", got)
	}
}

func TestSetDisplayOption_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p, m := newPrefs()
	for _, opt := range models.DisplayOptions {
		if err := p.SetDisplayOption(ctx, opt); err != nil {
			t.Fatalf("Set(%q): %v", opt, err)
		}
		if got := p.DisplayOption(ctx); got != opt {
			t.Errorf("got %q, want %q", got, opt)
		}
		raw, _, _ := m.Get(ctx, KeyDisplayOption)
		if raw != string(opt) {
			t.Errorf("stored %q, want raw label %q", raw, opt)
		}
	}
}

func TestSetDisplayOption_RejectsUnknown(t *testing.T) {
	p, m := newPrefs()
	err := p.SetDisplayOption(context.Background(), "Horoscopes")
	if !errors.Is(err, apperr.ErrInvalidOption) {
		t.Fatalf("err = %v, want ErrInvalidOption", err)
	}
	if _, ok, _ := m.Get(context.Background(), KeyDisplayOption); ok {
		t.Error("unknown option must not be stored")
	}
}

func TestIconSelection_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p, m := newPrefs()
	if _, ok := p.IconSelection(ctx); ok {
		t.Fatal("expected no selection initially")
	}

	when := time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)
	sel := models.IconSelection{Icons: []string{"7.png", "3.png", "88.png", "1.png"}, UpdatedAt: when}
	if err := p.SetIconSelection(ctx, sel); err != nil {
		t.Fatalf("SetIconSelection: %v", err)
	}

	got, ok := p.IconSelection(ctx)
	if !ok {
		t.Fatal("expected selection")
	}
	if !got.UpdatedAt.Equal(when) {
		t.Errorf("updated = %v", got.UpdatedAt)
	}
	if len(got.Icons) != 4 || got.Icons[2] != "88.png" {
		t.Errorf("icons = %v", got.Icons)
	}
	raw, _, _ := m.Get(ctx, KeyLastChosenIcons)
	if raw != `["7.png","3.png","88.png","1.png"]` {
		t.Errorf("stored icons = %s", raw)
	}
}

func TestIconSelection_BadDateIgnored(t *testing.T) {
	ctx := context.Background()
	p, m := newPrefs()
	_ = m.Set(ctx, KeyLastUpdateDate, "yesterday")
	_ = m.Set(ctx, KeyLastChosenIcons, `["1.png"]`)
	if _, ok := p.IconSelection(ctx); ok {
		t.Error("unparseable date should not yield a selection")
	}
}

func TestIconSelection_BadIconsKeepsDate(t *testing.T) {
	ctx := context.Background()
	p, m := newPrefs()
	_ = m.Set(ctx, KeyLastUpdateDate, "2025-03-03T00:00:00Z")
	_ = m.Set(ctx, KeyLastChosenIcons, `not json`)
	sel, ok := p.IconSelection(ctx)
	if !ok || len(sel.Icons) != 0 {
		t.Errorf("got %+v ok=%v", sel, ok)
	}
}
