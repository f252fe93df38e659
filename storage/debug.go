package storage

import (
	"log/slog"
	"os"
	"path/filepath"
)

// DebugDir writes markup dumps into a directory, one file per dump name.
// It implements the scraper's debug sink. Dump failures are logged and
// swallowed: diagnostics must never break extraction.
type DebugDir struct {
	dir string
}

// NewDebugDir creates the directory if needed and returns the sink, or nil
// when the directory cannot be created.
func NewDebugDir(dir string) *DebugDir {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("debug dir unavailable", "dir", dir, "error", err)
		return nil
	}
	return &DebugDir{dir: dir}
}

func (d *DebugDir) Dump(name, markup string) {
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		slog.Warn("debug dump failed", "path", path, "error", err)
		return
	}
	slog.Debug("debug dump written", "path", path, "bytes", len(markup))
}
