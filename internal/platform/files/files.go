// Package files holds the small filesystem helpers shared by the staging
// directories.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// EnsureDirs creates every directory that does not exist yet.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("files: create %s: %w", dir, err)
		}
	}
	return nil
}

// Remove deletes path and logs a failure instead of returning it. A file that
// is already gone is not a failure.
func Remove(logger *slog.Logger, path, kind string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("remove "+kind, slog.String("path", path), slog.Any("error", err))
	}
}
