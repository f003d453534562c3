// Package prefs provides the shared key-value store the companion and the
// widget renderer use to exchange the display preference and icon cache.
package prefs

import "context"

// Keys shared by every reader and writer of the store.
const (
	KeyDisplayOption   = "displayOption"
	KeyLastChosenIcons = "LastChosenIcons"
	KeyLastUpdateDate  = "LastUpdateDate"
)

// Store is a process-shared string key-value mapping.
// Consumers should depend on this interface rather than a concrete adapter.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Verify adapters satisfy Store at compile time.
var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)
