// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/researchmap-site/internal/render"
)

func TestWritePages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "_auto_contents")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "same.md"), []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.md"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changed.md"), []byte("v1"), 0o644))

	var out bytes.Buffer
	res, err := WritePages(dir, []render.Output{
		{File: "new.md", Body: "fresh"},
		{File: "same.md", Body: "same"},
		{File: "changed.md", Body: "v2"},
		{File: "stale.md"},
		{File: "never.md"},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"new.md", "changed.md"}, res.Wrote)
	assert.Equal(t, []string{"same.md"}, res.Unchanged)
	assert.Equal(t, []string{"stale.md"}, res.Removed)
	assert.Equal(t, 4, res.Total())

	got, err := os.ReadFile(filepath.Join(dir, "changed.md"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	_, err = os.Stat(filepath.Join(dir, "stale.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "never.md"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t,
		"wrote: "+filepath.Join(dir, "new.md")+"\n"+
			"unchanged: "+filepath.Join(dir, "same.md")+"\n"+
			"wrote: "+filepath.Join(dir, "changed.md")+"\n"+
			"removed: "+filepath.Join(dir, "stale.md")+"\n",
		out.String())
}

func TestWritePagesCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "_contents")
	res, err := WritePages(dir, []render.Output{{File: "profile.md", Body: "x"}}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"profile.md"}, res.Wrote)
}
