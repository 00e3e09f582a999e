// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/researchmap-site/pkg/types"
)

func TestWatcherMatch(t *testing.T) {
	root := t.TempDir()
	w := NewWatcher(root, types.DefaultSiteConfig().Preview.Watch, 0, zap.NewNop())

	tests := []struct {
		name string
		want bool
	}{
		{"index.html", true},
		{"assets/css/main.css", true},
		{"assets/js/app.js", true},
		{"_auto_contents/papers.md", true},
		{"_contents/profile.md", true},
		{"_auto_contents/metadata.yml", false},
		{"assets/css/vendor/x.css", false},
		{"about.html", false},
		{"_data/research_data.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Match(filepath.Join(root, filepath.FromSlash(tt.name))))
		})
	}

	assert.False(t, w.Match(filepath.Join(filepath.Dir(root), "index.html")), "outside root")
}

func TestWatcherDirs(t *testing.T) {
	root := t.TempDir()
	w := NewWatcher(root, []string{"index.html", "b/*.md", "a/*.css", "b/*.txt"}, 0, zap.NewNop())
	assert.Equal(t, []string{root, filepath.Join(root, "a"), filepath.Join(root, "b")}, w.Dirs())
}

func TestWatcherRunDebounces(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "_contents")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	w := NewWatcher(root, []string{"_contents/*.md", "missing/*.md"}, 50*time.Millisecond, zap.NewNop())
	changes := make(chan []string, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(paths []string) { changes <- paths }) }()

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "papers.md"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.md"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("c"), 0o644))

	select {
	case paths := <-changes:
		assert.Equal(t, []string{"_contents/books.md", "_contents/papers.md"}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
