package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keychord/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce delays a reload until the file has been quiet this long.
	// Default: DefaultDebounce.
	Debounce time.Duration

	// Logger receives reload notices. Default: logging.Null().
	Logger *logging.Logger

	// Load reads the file. Default: Load.
	Load func(path string) (*Config, error)
}

// Watch calls fn with the result of reloading path each time the file is
// written, created or replaced, until ctx is done. The parent directory is
// watched so that editors replacing the file by rename are seen. Watch
// blocks and returns nil when ctx is done.
func Watch(ctx context.Context, path string, opts WatchOptions, fn func(*Config, error)) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	if opts.Load == nil {
		opts.Load = Load
	}
	log := opts.Logger.WithComponent("config").WithField("path", path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	// The timer starts stopped; relevant events (re)arm it.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("change detected: %s", ev.Op)
			timer.Reset(opts.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", err)

		case <-timer.C:
			cfg, err := opts.Load(path)
			if err != nil {
				log.Warn("reload failed: %v", err)
			} else {
				log.Info("configuration reloaded")
			}
			fn(cfg, err)
		}
	}
}
