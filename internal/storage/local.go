package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes uploads to disk under dir; files are served back by the
// static /uploads route.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) Put(_ context.Context, f File) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	ext := filepath.Ext(f.Filename)
	name := fmt.Sprintf("%s-%s%s", SanitizeFilename(f.Filename), uuid.New().String()[:8], ext)
	path := filepath.Join(l.dir, name)

	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return "/uploads/" + name, nil
}

func (l *Local) Delete(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, "/uploads/")
	if !ok || strings.Contains(name, "/") {
		slog.Warn("local delete: url not recognized, skipping", "url", url)
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !os.IsNotExist(err) {
		slog.Warn("local delete failed", "url", url, "error", err)
	}
	return nil
}
