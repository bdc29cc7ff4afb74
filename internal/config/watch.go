package config

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time a reload alters something the assessment pipeline
// consumes: the model bundle directory, the scrape sources, or the MQTT
// settings. Edits that leave those sections untouched are absorbed without
// firing, so the server never re-resolves the model bundle over a tweak to
// an unrelated knob. Watch runs until ctx is cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previous config remains active — Watch does not call onChange.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	// Baseline for change detection. A failed initial load is not fatal:
	// the first successful reload then always fires.
	prev, err := Load(path)
	if err != nil {
		slog.Warn("config: could not establish reload baseline", "path", path, "err", err)
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only reload on write or create events. Editors often write via
			// rename (atomic save), so also catch fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

			if prev != nil && !assessmentChanged(prev, cfg) {
				slog.Debug("config: reload touched no assessment settings", "path", path)
				prev = cfg
				continue
			}
			prev = cfg

			slog.Info("config: reloaded", "path", path, "model_dir", cfg.Model.Dir)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// assessmentChanged reports whether the sections feeding the assessment
// pipeline differ between two configs: model bundle location, scrape
// sources, or MQTT ingestion. Server-surface knobs (port, broadcast
// interval, store TTL) take effect on restart only and never trigger a
// reload callback.
func assessmentChanged(a, b *Config) bool {
	return a.Model != b.Model ||
		a.MQTT != b.MQTT ||
		!reflect.DeepEqual(a.Scrape, b.Scrape)
}
