package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/vertex-lab/linkrank/pkg/utils/logger"
)

// Watch() runs the task, and then runs it again every time one of the files
// changes, until the context is done. Changes closer than debounce are
// collapsed into a single run. Errors of the task are logged, not returned.
func Watch(ctx context.Context, log *logger.Aggregate, files []string, debounce time.Duration, task func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create the watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace files instead of writing them, so the directories are watched
	watched := mapset.NewThreadUnsafeSet[string]()
	dirs := mapset.NewThreadUnsafeSet[string]()
	for _, file := range files {
		path, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched.Add(path)
		dirs.Add(filepath.Dir(path))
	}

	for dir := range dirs.Iter() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Error("%v", err)
		}
		log.Info("watching %d files for changes", watched.Cardinality())
	}
	run()

	ticker := time.NewTicker(max(debounce/4, time.Millisecond))
	defer ticker.Stop()

	var lastChange time.Time
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			path, err := filepath.Abs(event.Name)
			if err != nil || !watched.Contains(path) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				lastChange = time.Now()
				pending = true
			}

		case <-ticker.C:
			if pending && time.Since(lastChange) >= debounce {
				pending = false
				log.Info("input changed, running again")
				run()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher: %v", err)
		}
	}
}
