// Package grouping reconstructs album groupings from a flat, unordered
// batch of photo records accumulated across one or more pages.
//
// Photos sharing an album id and an uploader become one group. Photos with
// no album id are standalone, except for the legacy fallback: records created
// before albums existed are grouped when the same uploader produced them
// within 60 seconds of each other. The fallback is a best-effort heuristic,
// not a correctness guarantee — near-simultaneous unrelated uploads from
// one uploader can be mis-grouped.
package grouping

import (
	"sort"
	"time"

	"github.com/averywhitlock/photocove/internal/domain/models"
)

const (
	// PreviewSize is the number of member photos shown in summary views.
	PreviewSize = 6

	// FallbackWindow is the legacy time-window heuristic: album-less
	// photos from one uploader within this gap of each other form a group.
	FallbackWindow = 60 * time.Second

	// RecentWindow bounds the potentially-incomplete hint: only groups
	// whose newest member is this recent can still be receiving photos.
	RecentWindow = 24 * time.Hour
)

// AlbumInfo carries the authoritative display name and true member count
// for an album, resolved from its AlbumMetadata record and a count query.
type AlbumInfo struct {
	Name       string
	TotalCount int
}

// Group is a display-time aggregation of photos.
//
// AlbumID is empty for fallback time-window groups. Photos are sorted
// ascending by upload time; UploadedAt is the earliest member's timestamp
// so groups sort correctly newest-first against standalone photos.
type Group struct {
	AlbumID    string
	Name       string
	Photos     []models.Photo
	TotalCount int
	UploadedAt time.Time

	// PotentiallyIncomplete signals that later pages may carry more of
	// this album. It is a UI hint derived from pagination state and
	// recency; downstream logic must not depend on its exactness.
	PotentiallyIncomplete bool
}

// Unit is one entry in the display list: either a standalone photo or a
// group.
type Unit struct {
	IsGroup bool
	Photo   *models.Photo
	Group   *Group
}

// UploadedAt is the unit's effective sort key.
func (u Unit) UploadedAt() time.Time {
	if u.IsGroup {
		return u.Group.UploadedAt
	}
	return u.Photo.UploadedAt
}

func (u Unit) sortID() string {
	if u.IsGroup {
		// The first member id is unique per group; the album id alone is
		// not, since one album can split into per-uploader groups.
		if len(u.Group.Photos) > 0 {
			return u.Group.Photos[0].ID
		}
		return u.Group.AlbumID
	}
	return u.Photo.ID
}

// Input is one grouping request.
type Input struct {
	// Photos is the accumulated batch, unordered, possibly with
	// duplicates from re-fetched page boundaries.
	Photos []models.Photo

	// Albums maps album id to resolved metadata. Albums missing here fall
	// back to a date-derived name and the seen member count.
	Albums map[string]AlbumInfo

	// MorePages is true while the access path has more pages to fetch.
	MorePages bool

	// Now anchors the recency heuristic; the zero value means time.Now().
	Now time.Time
}

// Build partitions the batch into display units sorted descending by
// effective upload time.
func Build(in Input) []Unit {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	photos := Dedup(in.Photos)

	// Albums split per uploader: the same album id contributed to by two
	// uploaders renders as two groups.
	type albumKey struct {
		albumID    string
		uploaderID string
	}
	byAlbum := make(map[albumKey][]models.Photo)
	var loose []models.Photo
	for _, p := range photos {
		if p.AlbumID != "" {
			k := albumKey{p.AlbumID, p.UploaderID}
			byAlbum[k] = append(byAlbum[k], p)
		} else {
			loose = append(loose, p)
		}
	}

	var units []Unit
	for key, members := range byAlbum {
		g := buildGroup(key.albumID, members)
		if info, ok := in.Albums[key.albumID]; ok {
			if info.Name != "" {
				g.Name = info.Name
			}
			if info.TotalCount > g.TotalCount {
				g.TotalCount = info.TotalCount
			}
		}
		g.PotentiallyIncomplete = in.MorePages &&
			g.TotalCount > len(g.Photos) &&
			now.Sub(newestMember(g.Photos)) < RecentWindow
		units = append(units, Unit{IsGroup: true, Group: g})
	}

	units = append(units, fallbackUnits(loose)...)

	sort.Slice(units, func(i, j int) bool {
		ti, tj := units[i].UploadedAt(), units[j].UploadedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return units[i].sortID() > units[j].sortID()
	})
	return units
}

// Dedup removes duplicate photo ids, keeping the first occurrence. Page
// boundaries may return an item already seen when the store mutated
// between requests.
func Dedup(photos []models.Photo) []models.Photo {
	seen := make(map[string]struct{}, len(photos))
	out := photos[:0:0]
	for _, p := range photos {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Preview caps a group's visible members for summary views and returns the
// "more" indicator (true total minus shown). The group itself is not
// mutated.
func Preview(g *Group, size int) (shown []models.Photo, more int) {
	if size <= 0 {
		size = PreviewSize
	}
	shown = g.Photos
	if len(shown) > size {
		shown = shown[:size]
	}
	more = g.TotalCount - len(shown)
	if more < 0 {
		more = 0
	}
	return shown, more
}

func buildGroup(albumID string, members []models.Photo) *Group {
	sortAscending(members)
	return &Group{
		AlbumID:    albumID,
		Name:       models.DefaultAlbumName(members[0].UploadedAt),
		Photos:     members,
		TotalCount: len(members),
		UploadedAt: members[0].UploadedAt,
	}
}

// fallbackUnits chains album-less photos from the same uploader whose
// consecutive upload times are within FallbackWindow. Runs of two or more
// become groups; singletons stay standalone.
func fallbackUnits(loose []models.Photo) []Unit {
	sort.Slice(loose, func(i, j int) bool {
		if loose[i].UploaderID != loose[j].UploaderID {
			return loose[i].UploaderID < loose[j].UploaderID
		}
		if !loose[i].UploadedAt.Equal(loose[j].UploadedAt) {
			return loose[i].UploadedAt.Before(loose[j].UploadedAt)
		}
		return loose[i].ID < loose[j].ID
	})

	var units []Unit
	var run []models.Photo
	flush := func() {
		switch {
		case len(run) == 1:
			p := run[0]
			units = append(units, Unit{Photo: &p})
		case len(run) > 1:
			units = append(units, Unit{IsGroup: true, Group: buildGroup("", run)})
		}
		run = nil
	}

	for _, p := range loose {
		if len(run) > 0 {
			prev := run[len(run)-1]
			if p.UploaderID != prev.UploaderID || p.UploadedAt.Sub(prev.UploadedAt) > FallbackWindow {
				flush()
			}
		}
		run = append(run, p)
	}
	flush()
	return units
}

func sortAscending(photos []models.Photo) {
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].UploadedAt.Equal(photos[j].UploadedAt) {
			return photos[i].UploadedAt.Before(photos[j].UploadedAt)
		}
		return photos[i].ID < photos[j].ID
	})
}

func newestMember(photos []models.Photo) time.Time {
	newest := photos[0].UploadedAt
	for _, p := range photos[1:] {
		if p.UploadedAt.After(newest) {
			newest = p.UploadedAt
		}
	}
	return newest
}
