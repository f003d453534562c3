package catalog

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/hieroscope/internal/checksum"
)

// EventCallback is called after the catalog file changed on disk.
// kind is one of "updated", "deleted".
type EventCallback func(kind string, path string)

// debounce is how long the watcher waits for a burst of events to settle.
const debounce = 200 * time.Millisecond

// Watch observes the catalog file until ctx is cancelled and calls cb when
// its content changes. The parent directory is watched rather than the file
// itself so that editors which replace the file by rename are still seen.
// Events are debounced and compared by checksum, so touching the file
// without changing it is silent.
func Watch(ctx context.Context, path string, logger *slog.Logger, cb EventCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	last, _ := fileChecksum(abs)
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			sum, readErr := fileChecksum(abs)
			switch {
			case errors.Is(readErr, fs.ErrNotExist):
				if last == "" {
					continue
				}
				last = ""
				logger.Debug("watcher: catalog removed", slog.String("path", abs))
				if cb != nil {
					cb("deleted", abs)
				}
			case readErr != nil:
				logger.Warn("watcher: read failed", slog.String("path", abs), slog.String("error", readErr.Error()))
			case sum != last:
				last = sum
				logger.Debug("watcher: catalog changed", slog.String("path", abs), slog.String("checksum", sum))
				if cb != nil {
					cb("updated", abs)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return checksum.Sum(data), nil
}
