package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "creatorflow/internal/log"
)

// watchDebounce batches the bursts of events editors produce on save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads path whenever it changes and hands the new config to
// onChange. The parent directory is watched so that editors which replace
// the file (write temp + rename), like Save does, are still seen. A file
// that fails to parse is logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config watch %s: %w", filepath.Dir(abs), err)
	}
	appLog.Debug("watching config", "path", abs)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
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
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			appLog.Error("config watch error", err)

		case <-fire:
			fire = nil
			cfg, err := Load(abs)
			if err != nil {
				appLog.Error("config reload failed", err, "path", abs)
				continue
			}
			appLog.Info("config reloaded", "path", abs, "feeds", len(cfg.Feeds))
			onChange(cfg)
		}
	}
}
