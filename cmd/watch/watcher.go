package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".next":        true,
	".svelte-kit":  true,
	".turbo":       true,
	".cache":       true,
	".idea":        true,
	".vscode":      true,
}

// configFiles change how specifiers resolve even though they are neither
// styles nor scripts.
var configFiles = map[string]bool{
	"package.json":    true,
	"stylegraph.toml": true,
	"stylegraph.yaml": true,
	"stylegraph.yml":  true,
}

func watchAndRebuild(ctx context.Context, root string, exts []string, rb *rebuilder, b *broker, logger logrus.FieldLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event, exts) {
				continue
			}

			logger.WithField("path", event.Name).Debug("change detected")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				publishRebuild(ctx, rb, b, logger, true)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}

// publishRebuild walks again and publishes the snapshot. A failed walk keeps
// the previous snapshot on screen.
func publishRebuild(ctx context.Context, rb *rebuilder, b *broker, logger logrus.FieldLogger, changed bool) {
	payload, err := rb.rebuild(ctx, changed)
	if err != nil {
		logger.WithError(err).Error("rebuild failed")
		return
	}
	b.publish(payload)
}

func isRelevantChange(event fsnotify.Event, exts []string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if configFiles[name] {
		return true
	}
	if (strings.HasPrefix(name, "tsconfig") || strings.HasPrefix(name, "jsconfig")) && strings.HasSuffix(name, ".json") {
		return true
	}
	_, ok := langsupport.MatchExtension(event.Name, exts)
	return ok
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers root and every directory below it that is
// not skipped. Directories that vanish mid-walk are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
