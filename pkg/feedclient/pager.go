// pkg/feedclient/pager.go
package feedclient

import (
	"context"

	"github.com/averywhitlock/photocove/internal/app/system/grouping"
	"github.com/averywhitlock/photocove/internal/domain/models"
)

// Pager walks one access path page by page, accumulating photos and
// dropping ids already seen. The store can mutate between requests, so a
// page boundary may re-serve a photo from the previous page; dedup keeps
// the accumulated feed clean without the server promising exactness.
//
// Pager is not safe for concurrent use.
type Pager struct {
	fetch   func(ctx context.Context, lastKey string) (*Page, error)
	lastKey string
	done    bool
	seen    map[string]struct{}
	photos  []models.Photo
}

func newPager(fetch func(ctx context.Context, lastKey string) (*Page, error)) *Pager {
	return &Pager{fetch: fetch, seen: make(map[string]struct{})}
}

// ChronologicalPager pages the whole household feed.
func (c *Client) ChronologicalPager(limit int) *Pager {
	return newPager(func(ctx context.Context, lastKey string) (*Page, error) {
		return c.Photos(ctx, lastKey, limit)
	})
}

// UserPager pages a single uploader's photos.
func (c *Client) UserPager(userID string, limit int) *Pager {
	return newPager(func(ctx context.Context, lastKey string) (*Page, error) {
		return c.PhotosByUser(ctx, userID, lastKey, limit)
	})
}

// AlbumPager pages an album's members.
func (c *Client) AlbumPager(albumID string, limit int) *Pager {
	return newPager(func(ctx context.Context, lastKey string) (*Page, error) {
		return c.PhotosByAlbum(ctx, albumID, lastKey, limit)
	})
}

// Next loads the next page and returns the photos it added to the feed
// (after dedup). It returns an empty slice once the path is exhausted.
func (p *Pager) Next(ctx context.Context) ([]models.Photo, error) {
	if p.done {
		return nil, nil
	}

	page, err := p.fetch(ctx, p.lastKey)
	if err != nil {
		return nil, err
	}

	var added []models.Photo
	for _, photo := range page.Photos {
		if _, dup := p.seen[photo.ID]; dup {
			continue
		}
		p.seen[photo.ID] = struct{}{}
		p.photos = append(p.photos, photo)
		added = append(added, photo)
	}

	p.lastKey = page.LastKey
	if p.lastKey == "" {
		p.done = true
	}
	return added, nil
}

// Done reports whether the path is exhausted.
func (p *Pager) Done() bool { return p.done }

// Photos returns the accumulated, deduplicated feed so far.
func (p *Pager) Photos() []models.Photo { return p.photos }

// Units runs the grouping engine over the accumulated feed, producing
// display units (album groups and standalone photos) newest-first. albums
// supplies resolved metadata for album names and true counts; nil is fine.
func (p *Pager) Units(albums map[string]grouping.AlbumInfo) []grouping.Unit {
	return grouping.Build(grouping.Input{
		Photos:    p.photos,
		Albums:    albums,
		MorePages: !p.done,
	})
}
