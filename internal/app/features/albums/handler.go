// internal/app/features/albums/handler.go

// Package albums serves the album listing and the album-level operations:
// summaries with previews, rename (with its denormalized-name cascade), and
// deletion of empty albums. Album metadata records take the same
// reaction/comment/tag endpoints photos do.
package albums

import (
	"context"
	"net/http"
	"strconv"

	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Catalog is the slice of the catalog store this feature needs.
type Catalog interface {
	ChronologicalAlbums(ctx context.Context, token string, limit int) ([]models.AlbumMetadata, string, error)
	PhotosByAlbum(ctx context.Context, albumID, token string, limit int) ([]models.Photo, string, error)
	CountByAlbum(ctx context.Context, albumID string) (int64, error)
	GetAlbumMetadata(ctx context.Context, albumID string) (models.AlbumMetadata, error)
	RenameAlbum(ctx context.Context, albumID, name string) error
	DeleteAlbumMetadata(ctx context.Context, albumID string) error
}

// Handler holds the album feature's dependencies.
type Handler struct {
	Catalog Catalog
	Log     *zap.Logger
}

func NewHandler(catalog Catalog, logger *zap.Logger) *Handler {
	return &Handler{Catalog: catalog, Log: logger}
}

func pageParams(r *http.Request) (token string, limit int) {
	token = query.Get(r, "lastKey")
	limit, _ = strconv.Atoi(query.Get(r, "limit"))
	return token, limit
}
