// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the burst of events an editor or a pipeline run
// produces into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to files under root that match any of its glob
// patterns. Patterns are slash-separated and relative to root; only their
// directories are watched, not whole trees.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher builds a watcher. A zero debounce uses DefaultDebounce.
func NewWatcher(root string, patterns []string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, patterns: patterns, debounce: debounce, logger: logger}
}

// Match reports whether name, an absolute path or one relative to the
// working directory, matches a pattern.
func (w *Watcher) Match(name string) bool {
	rel, ok := w.rel(name)
	if !ok {
		return false
	}
	for _, pattern := range w.patterns {
		if matched, err := path.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) rel(name string) (string, bool) {
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Dirs returns the directories the patterns live in, deduplicated and
// sorted.
func (w *Watcher) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range w.patterns {
		dir := filepath.Join(w.root, filepath.FromSlash(path.Dir(pattern)))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Run watches until ctx is done, calling onChange with the sorted relative
// paths that changed during each quiet period. Directories that do not
// exist yet are skipped with a warning.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.Dirs() {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("not watching directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.logger.Debug("watching", zap.String("dir", dir))
	}

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.Match(ev.Name) {
				continue
			}
			rel, _ := w.rel(ev.Name)
			pending[rel] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			onChange(paths)
		}
	}
}
