package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keychord.toml", "[log]\nlevel = \"info\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		cfg *Config
		err error
	}
	results := make(chan result, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, WatchOptions{
			Debounce: 20 * time.Millisecond,
			Load: func(p string) (*Config, error) {
				data, err := os.ReadFile(p)
				if err != nil {
					return nil, err
				}
				return Parse(p, data)
			},
		}, func(cfg *Config, err error) {
			results <- result{cfg, err}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "other.toml", "ignored = true\n")
	writeFile(t, dir, "keychord.toml", "[log]\nlevel = \"debug\"\n")

	select {
	case r := <-results:
		if r.err != nil {
			t.Fatalf("reload error = %v", r.err)
		}
		if r.cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %q, want debug", r.cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "keychord.toml")
	err := Watch(context.Background(), path, WatchOptions{}, func(*Config, error) {})
	if err == nil {
		t.Error("Watch() error = nil for a missing directory")
	}
}
