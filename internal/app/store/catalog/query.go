// internal/app/store/catalog/query.go
package catalogstore

import (
	"context"

	"github.com/averywhitlock/photocove/internal/app/system/cursor"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClampLimit normalizes a caller-supplied page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ChronologicalPhotos pages all photos newest-first. token is the opaque
// cursor from the previous page, empty for the first page. The returned
// next token is empty when the scan is exhausted.
func (s *Store) ChronologicalPhotos(ctx context.Context, token string, limit int) ([]models.Photo, string, error) {
	return s.pagePhotos(ctx,
		cursor.Chronological(models.KindPhoto),
		bson.M{"kind": models.KindPhoto},
		token, limit)
}

// ChronologicalAlbums pages AlbumMetadata records newest-first.
func (s *Store) ChronologicalAlbums(ctx context.Context, token string, limit int) ([]models.AlbumMetadata, string, error) {
	limit = ClampLimit(limit)
	path := cursor.Chronological(models.KindAlbum)
	filter, err := withWindow(bson.M{"kind": models.KindAlbum}, token, path)
	if err != nil {
		return nil, "", err
	}

	cur, err := s.c.Find(ctx, filter, pageOpts(limit))
	if err != nil {
		return nil, "", err
	}
	var albums []models.AlbumMetadata
	if err := cur.All(ctx, &albums); err != nil {
		return nil, "", err
	}

	next := ""
	if len(albums) > limit {
		albums = albums[:limit]
		last := albums[len(albums)-1]
		next = cursor.Cursor{Path: path, UploadedAt: last.UploadedAt, ID: last.ID}.Encode()
	}
	return albums, next, nil
}

// PhotosByUploader pages one uploader's photos newest-first.
func (s *Store) PhotosByUploader(ctx context.Context, uploaderID, token string, limit int) ([]models.Photo, string, error) {
	return s.pagePhotos(ctx,
		cursor.Uploader(uploaderID),
		bson.M{"kind": models.KindPhoto, "uploader_id": uploaderID},
		token, limit)
}

// PhotosByAlbum pages one album's member photos newest-first.
func (s *Store) PhotosByAlbum(ctx context.Context, albumID, token string, limit int) ([]models.Photo, string, error) {
	return s.pagePhotos(ctx,
		cursor.Album(albumID),
		bson.M{"kind": models.KindPhoto, "album_id": albumID},
		token, limit)
}

// CountByAlbum returns the true member count of an album, independent of
// how many members any page has surfaced.
func (s *Store) CountByAlbum(ctx context.Context, albumID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"kind": models.KindPhoto, "album_id": albumID})
}

// pagePhotos runs one keyset page: fetch limit+1 rows descending
// (uploaded_at, _id); an extra row means more pages exist and the last
// returned row becomes the next cursor.
func (s *Store) pagePhotos(ctx context.Context, path string, filter bson.M, token string, limit int) ([]models.Photo, string, error) {
	limit = ClampLimit(limit)
	filter, err := withWindow(filter, token, path)
	if err != nil {
		return nil, "", err
	}

	cur, err := s.c.Find(ctx, filter, pageOpts(limit))
	if err != nil {
		return nil, "", err
	}
	var photos []models.Photo
	if err := cur.All(ctx, &photos); err != nil {
		return nil, "", err
	}

	next := ""
	if len(photos) > limit {
		photos = photos[:limit]
		last := photos[len(photos)-1]
		next = cursor.Cursor{Path: path, UploadedAt: last.UploadedAt, ID: last.ID}.Encode()
	}
	return photos, next, nil
}

func withWindow(filter bson.M, token, path string) (bson.M, error) {
	c, err := cursor.Decode(token, path)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return filter, nil
	}
	return bson.M{"$and": bson.A{filter, c.Window()}}, nil
}

func pageOpts(limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1))
}
