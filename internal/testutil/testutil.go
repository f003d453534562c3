// Package testutil provides shared test helpers for wiring stores and services.
package testutil

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/hieroscope/internal/catalog"
	"github.com/starford/hieroscope/internal/models"
	"github.com/starford/hieroscope/internal/prefs"
	"github.com/starford/hieroscope/internal/season"
	"github.com/starford/hieroscope/internal/widget"
	"github.com/starford/hieroscope/internal/widgetservice"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestStore creates a SQLite preference store in a temp dir that is
// automatically closed.
func TestStore(t *testing.T) *prefs.SQLite {
	t.Helper()
	store, err := prefs.OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// Entry builds a catalog entry whose notes and description derive from id.
func Entry(id, start string) models.SeasonEntry {
	return models.SeasonEntry{
		ID:          id,
		Symbol:      "<" + id + ">",
		Notes:       id + " notes",
		Description: id + " description",
		StartDate:   start,
	}
}

// Env is a fully wired service plus its collaborators.
type Env struct {
	Service *widgetservice.Service
	Store   prefs.Store
	Prefs   *prefs.Preferences
	Events  *[]string
}

// TestService wires a Service over provider with an in-memory store, a
// seeded icon picker and a clock fixed at now. Notifier events are recorded
// in Env.Events.
func TestService(t *testing.T, provider catalog.Provider, now time.Time) *Env {
	t.Helper()
	logger := Logger()
	store := prefs.NewMemory()
	p := prefs.New(store, logger)
	resolver := season.NewResolver(provider, logger)

	clock := func() time.Time { return now }
	var events []string
	svc := widgetservice.New(widgetservice.Deps{
		Provider:  provider,
		Prefs:     p,
		Resolver:  resolver,
		Renderer:  widget.NewRenderer(resolver, nil),
		Scheduler: widget.NewScheduler(0, 0),
		Icons:     widget.NewIconPicker(p, widget.BuiltinPool(), rand.New(rand.NewPCG(1, 2)), clock),
		Notify: func(kind string, _ map[string]string) {
			events = append(events, kind)
		},
		Now: clock,
	})
	return &Env{Service: svc, Store: store, Prefs: p, Events: &events}
}
