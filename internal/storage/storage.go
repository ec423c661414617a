package storage

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/estudiolex/subastas-backend/internal/config"
	"golang.org/x/sync/errgroup"
)

// ErrUploadFailed wraps any provider-side failure (bad response, network
// error, timeout). Handlers map it to a 500 unless they degrade.
var ErrUploadFailed = errors.New("upload failed")

// File is one upload payload.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Uploader is the single storage abstraction. The backend is selected by
// configuration, never by which handler happens to call it.
type Uploader interface {
	// Put stores the file and returns its public URL.
	Put(ctx context.Context, f File) (string, error)
	// Delete is best-effort: an unrecognized URL is logged and ignored so
	// it never blocks the caller's primary delete.
	Delete(ctx context.Context, url string) error
}

// New builds the configured backend. Missing provider credentials degrade
// to the local backend with a warning instead of refusing to start: the
// site's primary value is text content, not file hosting.
func New(cfg *config.Config) Uploader {
	switch cfg.StorageBackend {
	case config.StorageImgBB:
		if cfg.ImgBBAPIKey == "" {
			slog.Warn("IMGBB_API_KEY not set, falling back to local storage")
			return NewLocal(cfg.UploadDir)
		}
		return NewImgBB(cfg.ImgBBAPIKey)
	case config.StorageCloudinary:
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			slog.Warn("cloudinary credentials incomplete, falling back to local storage")
			return NewLocal(cfg.UploadDir)
		}
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	default:
		return NewLocal(cfg.UploadDir)
	}
}

// PutAll uploads every file concurrently. Any single failure fails the
// whole batch; callers that need partial-failure tolerance retry per
// file themselves.
func PutAll(ctx context.Context, u Uploader, files []File) ([]string, error) {
	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := u.Put(ctx, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeFilename turns an arbitrary client filename into a safe remote
// object key: extension stripped, non-alphanumeric runs collapsed to a
// single hyphen, bounded length. Upstream storage mangles anything else.
func SanitizeFilename(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = nonAlnum.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > 60 {
		name = name[:60]
		name = strings.Trim(name, "-")
	}
	if name == "" {
		name = "documento"
	}
	return name
}
