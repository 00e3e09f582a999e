// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAPIKey, "  rm_key  \n")
				writeFile(t, dir, KeyAPISecret, "rm_secret\n")
				return dir
			},
			want: map[string]string{
				KeyAPIKey:    "rm_key",
				KeyAPISecret: "rm_secret",
			},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips blank files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAPIKey, "rm_key")
				writeFile(t, dir, KeyAPISecret, "   \n\t  ")
				return dir
			},
			want: map[string]string{KeyAPIKey: "rm_key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".old-secret", "stale")
				writeFile(t, dir, KeyAPISecret, "rm_secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
				return dir
			},
			want: map[string]string{KeyAPISecret: "rm_secret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain", "x")

	_, err := Load(filepath.Join(dir, "plain"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secrets directory")
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 000 files")
	}
	dir := t.TempDir()
	writeFile(t, dir, KeyAPIKey, "rm_key")

	badPath := filepath.Join(dir, KeyAPISecret)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyAPIKey: "rm_key"}, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
