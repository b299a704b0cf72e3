package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/gridsync/internal/utils"
)

const (
	DefaultDebounce = 500 * time.Millisecond
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	Log      logrus.FieldLogger
}

// Watch calls onChange whenever a manifest under root is written, created,
// renamed or removed. Bursts of events within the debounce window collapse
// into one call and calls never overlap. Watch blocks until ctx is done.
func Watch(ctx context.Context, root string, opts WatchOptions, onChange func()) error {
	log := opts.Log
	if log == nil {
		log = utils.Log
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return classifyRootError(root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return classifyRootError(root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(root, e.Name())); err != nil {
			log.Warnf("Could not watch %s: %v", e.Name(), err)
		}
	}

	var (
		mu    sync.Mutex
		runMu sync.Mutex
		timer *time.Timer
	)
	// onChange never overlaps itself; a burst arriving mid-run waits.
	run := func() {
		runMu.Lock()
		defer runMu.Unlock()
		onChange()
	}
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, run)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				// New store directories are watched as they appear.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Warnf("Could not watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !strings.HasSuffix(event.Name, manifestExt) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Debugf("Manifest changed: %s (%s)", event.Name, event.Op)
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("File watcher error: %v", err)
		}
	}
}
