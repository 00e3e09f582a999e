// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/researchmap-site/internal/render"
)

// WriteResult counts what WritePages did.
type WriteResult struct {
	Wrote     []string
	Unchanged []string
	Removed   []string
}

// Total returns the number of pages written, unchanged, or removed.
func (r WriteResult) Total() int {
	return len(r.Wrote) + len(r.Unchanged) + len(r.Removed)
}

// WritePages writes each page with a body into dir and removes the file of
// each page without one. A page that is already absent is left alone. One
// progress line per changed file goes to w.
func WritePages(dir string, pages []render.Output, w io.Writer) (WriteResult, error) {
	var result WriteResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("creating content directory %s: %w", dir, err)
	}

	for _, page := range pages {
		path := filepath.Join(dir, page.File)

		if page.Body == "" {
			err := os.Remove(path)
			switch {
			case err == nil:
				fmt.Fprintf(w, "removed: %s\n", path)
				result.Removed = append(result.Removed, page.File)
			case errors.Is(err, os.ErrNotExist):
			default:
				return result, fmt.Errorf("removing %s: %w", path, err)
			}
			continue
		}

		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, []byte(page.Body)) {
			fmt.Fprintf(w, "unchanged: %s\n", path)
			result.Unchanged = append(result.Unchanged, page.File)
			continue
		}
		if err := os.WriteFile(path, []byte(page.Body), 0o644); err != nil {
			return result, fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(w, "wrote: %s\n", path)
		result.Wrote = append(result.Wrote, page.File)
	}

	return result, nil
}
