// internal/app/system/imaging/local.go
package imaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
)

// LocalPipeline stores artifacts on the local filesystem for development.
// There is no resizer locally, so the display and thumbnail URLs point at
// the original.
type LocalPipeline struct {
	dir     string
	baseURL string // e.g. http://localhost:8080/media
}

func NewLocalPipeline(dir, baseURL string) (*LocalPipeline, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalPipeline{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the media root so the HTTP layer can serve it.
func (p *LocalPipeline) Dir() string { return p.dir }

func (p *LocalPipeline) Store(ctx context.Context, photoID string, data []byte, contentType string) (Result, error) {
	ext, err := extFor(contentType)
	if err != nil {
		return Result{}, err
	}

	key := fmt.Sprintf("photos/%s/original%s", photoID, ext)
	path := filepath.Join(p.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, apperr.Upstream("could not store photo", fmt.Errorf("create photo dir: %w", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Result{}, apperr.Upstream("could not store photo", fmt.Errorf("write %s: %w", path, err))
	}

	url := p.baseURL + "/" + key
	takenAt, loc := ExtractMetadata(data)
	return Result{
		URL:          url,
		ThumbnailURL: url,
		OriginalURL:  url,
		Key:          key,
		TakenAt:      takenAt,
		Location:     loc,
	}, nil
}

func (p *LocalPipeline) Delete(ctx context.Context, key string) error {
	path := filepath.Join(p.dir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperr.Upstream("could not remove photo artifact", fmt.Errorf("remove %s: %w", path, err))
	}
	// Drop the per-photo directory if it is now empty.
	_ = os.Remove(filepath.Dir(path))
	return nil
}
