// internal/app/features/albums/list.go
package albums

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/grouping"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"go.uber.org/zap"
)

// Summary is one album in the listing: metadata plus a capped preview of
// members and the count of photos the preview hides.
type Summary struct {
	AlbumID    string         `json:"albumId"`
	Name       string         `json:"name"`
	UploaderID string         `json:"uploaderId"`
	CreatedAt  time.Time      `json:"createdAt"`
	TotalCount int            `json:"totalCount"`
	Preview    []models.Photo `json:"preview"`
	MorePhotos int            `json:"morePhotos"`
}

type listResponse struct {
	Albums  []Summary `json:"albums"`
	LastKey string    `json:"lastKey,omitempty"`
}

// List handles GET /albums: one page of albums newest-first, each with its
// true member count and a preview. The per-album count and preview queries
// fan out concurrently; one failed album fails the page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, limit := pageParams(r)
	metas, next, err := h.Catalog.ChronologicalAlbums(ctx, token, limit)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	summaries := make([]Summary, len(metas))
	errs := make([]error, len(metas))
	var wg sync.WaitGroup
	for i, meta := range metas {
		wg.Add(1)
		go func(i int, meta models.AlbumMetadata) {
			defer wg.Done()
			summaries[i], errs[i] = h.summarize(ctx, meta)
		}(i, meta)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			httpjson.Error(w, err, h.Log)
			return
		}
	}
	httpjson.Write(w, http.StatusOK, listResponse{Albums: summaries, LastKey: next})
}

// summarize resolves one album's count and preview.
func (h *Handler) summarize(ctx context.Context, meta models.AlbumMetadata) (Summary, error) {
	count, err := h.Catalog.CountByAlbum(ctx, meta.AlbumID)
	if err != nil {
		return Summary{}, err
	}
	members, _, err := h.Catalog.PhotosByAlbum(ctx, meta.AlbumID, "", grouping.PreviewSize)
	if err != nil {
		return Summary{}, err
	}

	g := grouping.Group{
		AlbumID:    meta.AlbumID,
		Name:       meta.Name,
		Photos:     members,
		TotalCount: int(count),
	}
	shown, more := grouping.Preview(&g, grouping.PreviewSize)
	if shown == nil {
		shown = []models.Photo{}
	}

	return Summary{
		AlbumID:    meta.AlbumID,
		Name:       meta.Name,
		UploaderID: meta.UploaderID,
		CreatedAt:  meta.UploadedAt,
		TotalCount: int(count),
		Preview:    shown,
		MorePhotos: more,
	}, nil
}

// Get handles GET /albums/{albumID}: the metadata record plus the first
// page of members. Further member pages come from /photos/album/{albumID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	albumID := albumIDParam(r)
	meta, err := h.Catalog.GetAlbumMetadata(ctx, albumID)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	token, limit := pageParams(r)
	photos, next, err := h.Catalog.PhotosByAlbum(ctx, albumID, token, limit)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	count, err := h.Catalog.CountByAlbum(ctx, albumID)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"album":      meta,
		"totalCount": count,
		"photos":     photos,
		"lastKey":    next,
	})
}

func (h *Handler) logAlbumChange(action, albumID, by string) {
	h.Log.Info("album "+action, zap.String("album_id", albumID), zap.String("by", by))
}
