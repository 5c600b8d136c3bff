// internal/testutil/memcatalog.go
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/averywhitlock/photocove/internal/app/policy/annotationpolicy"
	catalogstore "github.com/averywhitlock/photocove/internal/app/store/catalog"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/cursor"
	"github.com/averywhitlock/photocove/internal/app/system/normalize"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/google/uuid"
)

// MemCatalog is an in-memory stand-in for the Mongo catalog store with the
// same pagination and error semantics. Handler and client tests use it to
// run hermetically.
type MemCatalog struct {
	mu     sync.Mutex
	photos map[string]models.Photo
	albums map[string]models.AlbumMetadata // keyed by grouping id
}

func NewMemCatalog() *MemCatalog {
	return &MemCatalog{
		photos: make(map[string]models.Photo),
		albums: make(map[string]models.AlbumMetadata),
	}
}

func (m *MemCatalog) PutPhoto(_ context.Context, p models.Photo) (models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Kind = models.KindPhoto
	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now().UTC()
	}
	m.photos[p.ID] = p
	return p, nil
}

func (m *MemCatalog) GetPhoto(_ context.Context, id string) (models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return models.Photo{}, apperr.NotFound("photo %s not found", id)
	}
	return p, nil
}

func (m *MemCatalog) DeletePhoto(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[id]; !ok {
		return apperr.NotFound("photo %s not found", id)
	}
	delete(m.photos, id)
	return nil
}

func (m *MemCatalog) EnsureAlbum(_ context.Context, albumID, uploaderID string, firstUpload time.Time) (models.AlbumMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.albums[albumID]; ok {
		return existing, nil
	}
	meta := models.AlbumMetadata{
		ID:         models.AlbumMetadataID(albumID),
		Kind:       models.KindAlbum,
		AlbumID:    albumID,
		UploaderID: uploaderID,
		UploadedAt: firstUpload.UTC(),
		Name:       models.DefaultAlbumName(firstUpload),
	}
	m.albums[albumID] = meta
	return meta, nil
}

func (m *MemCatalog) GetAlbumMetadata(_ context.Context, albumID string) (models.AlbumMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.albums[albumID]
	if !ok {
		return models.AlbumMetadata{}, apperr.NotFound("album %s not found", albumID)
	}
	return meta, nil
}

func (m *MemCatalog) RenameAlbum(_ context.Context, albumID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.albums[albumID]
	if !ok {
		return apperr.NotFound("album %s not found", albumID)
	}
	meta.Name = name
	m.albums[albumID] = meta
	for id, p := range m.photos {
		if p.AlbumID == albumID {
			p.AlbumName = name
			m.photos[id] = p
		}
	}
	return nil
}

func (m *MemCatalog) DeleteAlbumMetadata(_ context.Context, albumID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.photos {
		if p.AlbumID == albumID {
			return apperr.Conflict("album %s still has photos", albumID)
		}
	}
	if _, ok := m.albums[albumID]; !ok {
		return apperr.NotFound("album %s not found", albumID)
	}
	delete(m.albums, albumID)
	return nil
}

func (m *MemCatalog) CountByAlbum(_ context.Context, albumID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.photos {
		if p.AlbumID == albumID {
			n++
		}
	}
	return n, nil
}

func (m *MemCatalog) ChronologicalPhotos(_ context.Context, token string, limit int) ([]models.Photo, string, error) {
	return m.pagePhotos(cursor.Chronological(models.KindPhoto), func(models.Photo) bool { return true }, token, limit)
}

func (m *MemCatalog) PhotosByUploader(_ context.Context, uploaderID, token string, limit int) ([]models.Photo, string, error) {
	return m.pagePhotos(cursor.Uploader(uploaderID), func(p models.Photo) bool { return p.UploaderID == uploaderID }, token, limit)
}

func (m *MemCatalog) PhotosByAlbum(_ context.Context, albumID, token string, limit int) ([]models.Photo, string, error) {
	return m.pagePhotos(cursor.Album(albumID), func(p models.Photo) bool { return p.AlbumID == albumID }, token, limit)
}

func (m *MemCatalog) ChronologicalAlbums(_ context.Context, token string, limit int) ([]models.AlbumMetadata, string, error) {
	limit = catalogstore.ClampLimit(limit)
	path := cursor.Chronological(models.KindAlbum)
	c, err := cursor.Decode(token, path)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	var all []models.AlbumMetadata
	for _, a := range m.albums {
		if c == nil || c.After(a.UploadedAt, a.ID) {
			all = append(all, a)
		}
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadedAt.Equal(all[j].UploadedAt) {
			return all[i].UploadedAt.After(all[j].UploadedAt)
		}
		return all[i].ID > all[j].ID
	})

	next := ""
	if len(all) > limit {
		all = all[:limit]
		last := all[len(all)-1]
		next = cursor.Cursor{Path: path, UploadedAt: last.UploadedAt, ID: last.ID}.Encode()
	}
	return all, next, nil
}

func (m *MemCatalog) pagePhotos(path string, match func(models.Photo) bool, token string, limit int) ([]models.Photo, string, error) {
	limit = catalogstore.ClampLimit(limit)
	c, err := cursor.Decode(token, path)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	var all []models.Photo
	for _, p := range m.photos {
		if !match(p) {
			continue
		}
		if c == nil || c.After(p.UploadedAt, p.ID) {
			all = append(all, p)
		}
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadedAt.Equal(all[j].UploadedAt) {
			return all[i].UploadedAt.After(all[j].UploadedAt)
		}
		return all[i].ID > all[j].ID
	})

	next := ""
	if len(all) > limit {
		all = all[:limit]
		last := all[len(all)-1]
		next = cursor.Cursor{Path: path, UploadedAt: last.UploadedAt, ID: last.ID}.Encode()
	}
	return all, next, nil
}

/* Annotation operations mirror the store's array read-modify-write. */

func (m *MemCatalog) ToggleReaction(_ context.Context, ownerID string, by catalogstore.Author, typ string) (models.Reaction, bool, error) {
	typ = normalize.ReactionType(typ)
	if typ == "" {
		return models.Reaction{}, false, apperr.Validation("reaction type is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	reactions, write, err := m.annotationOwner(ownerID)
	if err != nil {
		return models.Reaction{}, false, err
	}

	if i := models.FindReaction(reactions.Reactions, by.ID, typ); i >= 0 {
		removed := reactions.Reactions[i]
		reactions.Reactions = append(reactions.Reactions[:i], reactions.Reactions[i+1:]...)
		write()
		return removed, false, nil
	}
	r := models.Reaction{
		ID:         uuid.NewString(),
		Type:       typ,
		AuthorID:   by.ID,
		AuthorName: by.Name,
		CreatedAt:  time.Now().UTC(),
	}
	reactions.Reactions = append(reactions.Reactions, r)
	write()
	return r, true, nil
}

func (m *MemCatalog) RemoveReaction(_ context.Context, ownerID, reactionID, requesterID string, requesterIsAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, write, err := m.annotationOwner(ownerID)
	if err != nil {
		return err
	}

	for i, r := range rec.Reactions {
		if r.ID != reactionID {
			continue
		}
		if r.AuthorID != requesterID && !requesterIsAdmin {
			return apperr.Forbidden("only the reaction author or an admin may remove it")
		}
		rec.Reactions = append(rec.Reactions[:i], rec.Reactions[i+1:]...)
		write()
		return nil
	}
	return apperr.NotFound("reaction %s not found", reactionID)
}

func (m *MemCatalog) AddComment(_ context.Context, ownerID string, by catalogstore.Author, body string) (models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return models.Comment{}, apperr.Validation("comment body is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rec, write, err := m.annotationOwner(ownerID)
	if err != nil {
		return models.Comment{}, err
	}

	c := models.Comment{
		ID:         uuid.NewString(),
		Body:       body,
		AuthorID:   by.ID,
		AuthorName: by.Name,
		CreatedAt:  time.Now().UTC(),
	}
	rec.Comments = append(rec.Comments, c)
	write()
	return c, nil
}

func (m *MemCatalog) DeleteComment(_ context.Context, ownerID, commentID, requesterID string, requesterIsAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, write, err := m.annotationOwner(ownerID)
	if err != nil {
		return err
	}

	for i, c := range rec.Comments {
		if c.ID != commentID {
			continue
		}
		if !annotationpolicy.CanDeleteComment(c, requesterID, requesterIsAdmin) {
			return apperr.Forbidden("only the comment author or an admin may delete it")
		}
		rec.Comments = append(rec.Comments[:i], rec.Comments[i+1:]...)
		write()
		return nil
	}
	return apperr.NotFound("comment %s not found", commentID)
}

func (m *MemCatalog) AddTag(_ context.Context, ownerID, tag string) (string, error) {
	tag = normalize.Tag(tag)
	if tag == "" {
		return "", apperr.Validation("tag is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rec, write, err := m.annotationOwner(ownerID)
	if err != nil {
		return "", err
	}
	for _, t := range rec.Tags {
		if t == tag {
			return "", apperr.Conflict("tag %q already present", tag)
		}
	}
	rec.Tags = append(rec.Tags, tag)
	write()
	return tag, nil
}

func (m *MemCatalog) RemoveTag(_ context.Context, ownerID, tag string) error {
	tag = normalize.Tag(tag)
	if tag == "" {
		return apperr.Validation("tag is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rec, write, err := m.annotationOwner(ownerID)
	if err != nil {
		return err
	}
	for i, t := range rec.Tags {
		if t == tag {
			rec.Tags = append(rec.Tags[:i], rec.Tags[i+1:]...)
			write()
			return nil
		}
	}
	return apperr.NotFound("tag %q not present", tag)
}

// annotationShared is the annotation surface common to photos and album
// metadata records.
type annotationShared struct {
	Reactions []models.Reaction
	Comments  []models.Comment
	Tags      []string
}

// annotationOwner resolves an owner id to its annotation arrays and a
// write-back closure. Callers must hold m.mu.
func (m *MemCatalog) annotationOwner(ownerID string) (*annotationShared, func(), error) {
	if p, ok := m.photos[ownerID]; ok {
		shared := &annotationShared{Reactions: p.Reactions, Comments: p.Comments, Tags: p.Tags}
		return shared, func() {
			p.Reactions, p.Comments, p.Tags = shared.Reactions, shared.Comments, shared.Tags
			m.photos[ownerID] = p
		}, nil
	}
	if albumID, ok := strings.CutPrefix(ownerID, models.AlbumMetadataIDPrefix); ok {
		if a, found := m.albums[albumID]; found {
			shared := &annotationShared{Reactions: a.Reactions, Comments: a.Comments, Tags: a.Tags}
			return shared, func() {
				a.Reactions, a.Comments, a.Tags = shared.Reactions, shared.Comments, shared.Tags
				m.albums[albumID] = a
			}, nil
		}
	}
	return nil, nil, apperr.NotFound("record %s not found", ownerID)
}
