// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept as plain-text files, one secret
// per file. The filename is the key and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/researchmap-site/internal/logging"
)

// DefaultDir is where credential files live, relative to the site root.
const DefaultDir = ".secrets"

// Key files understood by the authenticated pipeline.
const (
	KeyAPIKey    = "researchmap-api-key"
	KeyAPISecret = "researchmap-api-secret"
)

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty map. Empty files are skipped, and
// unreadable ones are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	logger = logging.OrNop(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			found[name] = value
		}
	}
	return found, nil
}
