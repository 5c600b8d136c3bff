// internal/app/system/imaging/imaging.go

// Package imaging stores uploaded image bytes and derives the URLs the
// catalog records. Pixel work (resizing, format conversion) happens outside
// this process: the S3 backend writes originals under a key layout a resizer
// watches, and the derived-variant URLs follow that layout by convention.
package imaging

import (
	"context"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/domain/models"
)

// Result is what one stored upload contributes to the photo record.
type Result struct {
	URL          string
	ThumbnailURL string
	OriginalURL  string
	Key          string

	// TakenAt and Location come from EXIF when the image carries them.
	TakenAt  *time.Time
	Location *models.GeoPoint
}

// Pipeline stores and removes image artifacts. Implementations classify
// failures with apperr: an unsupported content type is a validation error,
// backend I/O failures are upstream errors.
type Pipeline interface {
	Store(ctx context.Context, photoID string, data []byte, contentType string) (Result, error)
	Delete(ctx context.Context, key string) error
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// extFor maps an upload's content type to the artifact extension, rejecting
// types the resizer cannot handle.
func extFor(contentType string) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", apperr.Validation("unsupported image type %q", contentType)
	}
	return ext, nil
}
