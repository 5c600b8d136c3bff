// internal/app/features/photos/handler.go

// Package photos serves the photo feed and the photo-level operations:
// upload, caption edits, deletion, and the reaction/comment/tag endpoints.
package photos

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/imaging"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Catalog is the slice of the catalog store this feature needs. Tests
// substitute an in-memory implementation.
type Catalog interface {
	ChronologicalPhotos(ctx context.Context, token string, limit int) ([]models.Photo, string, error)
	PhotosByUploader(ctx context.Context, uploaderID, token string, limit int) ([]models.Photo, string, error)
	PhotosByAlbum(ctx context.Context, albumID, token string, limit int) ([]models.Photo, string, error)
	CountByAlbum(ctx context.Context, albumID string) (int64, error)
	GetPhoto(ctx context.Context, id string) (models.Photo, error)
	PutPhoto(ctx context.Context, p models.Photo) (models.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
	EnsureAlbum(ctx context.Context, albumID, uploaderID string, firstUpload time.Time) (models.AlbumMetadata, error)
}

// Handler holds the photo feature's dependencies.
type Handler struct {
	Catalog Catalog
	Images  imaging.Pipeline
	Log     *zap.Logger
}

func NewHandler(catalog Catalog, images imaging.Pipeline, logger *zap.Logger) *Handler {
	return &Handler{Catalog: catalog, Images: images, Log: logger}
}

// pageParams reads the shared pagination query parameters.
func pageParams(r *http.Request) (token string, limit int) {
	token = query.Get(r, "lastKey")
	limit, _ = strconv.Atoi(query.Get(r, "limit"))
	return token, limit
}
