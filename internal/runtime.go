package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/hieroscope/internal/catalog"
	"github.com/starford/hieroscope/internal/prefs"
	"github.com/starford/hieroscope/internal/season"
	"github.com/starford/hieroscope/internal/sse"
	"github.com/starford/hieroscope/internal/widget"
	"github.com/starford/hieroscope/internal/widgetservice"
)

// Runtime is the wired application shared by the server, the MCP server and
// the one-shot CLI commands.
type Runtime struct {
	Config  *Config
	Logger  *slog.Logger
	Service *widgetservice.Service
	Broker  *sse.Broker
	store   prefs.Store
}

// Open builds a Runtime from the given options. Callers must Close it.
func Open(_ context.Context, opts ...Option) (*Runtime, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	out := app.logOutput
	if out == nil {
		out = os.Stdout
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	provider := newProvider(cfg.Catalog, logger)
	p := prefs.New(store, logger)
	resolver := season.NewResolver(provider, logger)

	var pool widget.Pool = widget.BuiltinPool()
	if cfg.Widget.IconDir != "" {
		pool = widget.DirPool(cfg.Widget.IconDir)
	}

	broker := sse.NewBroker(cfg.Widget.ReloadThrottle)

	svc := widgetservice.New(widgetservice.Deps{
		Provider:  provider,
		Prefs:     p,
		Resolver:  resolver,
		Renderer:  widget.NewRenderer(resolver, cfg.Widget.Mantras),
		Scheduler: widget.NewScheduler(cfg.Widget.RefreshInterval, cfg.Widget.Window),
		Icons:     widget.NewIconPicker(p, pool, nil, app.now),
		Notify:    broker.PublishChange,
		Now:       app.now,
	})

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Service: svc,
		Broker:  broker,
		store:   store,
	}, nil
}

// Close releases the store and stops the broker.
func (rt *Runtime) Close() error {
	rt.Broker.Close()
	return rt.store.Close()
}

// Now returns the runtime clock's current time.
func (rt *Runtime) Now() time.Time { return rt.Service.Now() }

func openStore(cfg StoreConfig) (prefs.Store, error) {
	if cfg.Driver == StoreDriverMemory {
		return prefs.NewMemory(), nil
	}
	return prefs.OpenSQLite(cfg.Path)
}

func newProvider(cfg CatalogConfig, logger *slog.Logger) catalog.Provider {
	if cfg.Path == "" {
		return catalog.Embedded{}
	}
	return catalog.NewFile(cfg.Path, logger)
}
