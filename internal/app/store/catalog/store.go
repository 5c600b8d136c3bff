// internal/app/store/catalog/store.go

// Package catalogstore persists Photo and AlbumMetadata records in one
// Mongo collection, keyed by string ids, and exposes the three read paths
// (chronological, by-uploader, by-album) as descending uploaded_at scans.
//
// A successful Put or UpdateFields is immediately visible on all three
// paths: the paths are filters over the same collection, not staged
// projections.
package catalogstore

import (
	"context"
	"errors"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Page size bounds for all three read paths.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("catalog")}
}

// PutPhoto upserts a photo, populating the denormalized keys every read
// path consumes.
func (s *Store) PutPhoto(ctx context.Context, p models.Photo) (models.Photo, error) {
	p.Kind = models.KindPhoto
	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now().UTC()
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts); err != nil {
		return models.Photo{}, err
	}
	return p, nil
}

// GetPhoto loads one photo by id.
func (s *Store) GetPhoto(ctx context.Context, id string) (models.Photo, error) {
	var p models.Photo
	err := s.c.FindOne(ctx, bson.M{"_id": id, "kind": models.KindPhoto}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Photo{}, apperr.NotFound("photo %s not found", id)
	}
	if err != nil {
		return models.Photo{}, err
	}
	return p, nil
}

// GetAlbumMetadata loads the metadata record for an album grouping id.
func (s *Store) GetAlbumMetadata(ctx context.Context, albumID string) (models.AlbumMetadata, error) {
	var a models.AlbumMetadata
	err := s.c.FindOne(ctx, bson.M{"_id": models.AlbumMetadataID(albumID)}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AlbumMetadata{}, apperr.NotFound("album %s not found", albumID)
	}
	if err != nil {
		return models.AlbumMetadata{}, err
	}
	return a, nil
}

// EnsureAlbum creates the AlbumMetadata record for a grouping id if it does
// not exist yet. The record is created at most once per grouping id: a
// concurrent duplicate insert loses the race and reads back the winner.
func (s *Store) EnsureAlbum(ctx context.Context, albumID, uploaderID string, firstUpload time.Time) (models.AlbumMetadata, error) {
	meta := models.AlbumMetadata{
		ID:         models.AlbumMetadataID(albumID),
		Kind:       models.KindAlbum,
		AlbumID:    albumID,
		UploaderID: uploaderID,
		UploadedAt: firstUpload.UTC(),
		Name:       models.DefaultAlbumName(firstUpload),
	}
	_, err := s.c.InsertOne(ctx, meta)
	if err == nil {
		return meta, nil
	}
	if wafflemongo.IsDup(err) {
		return s.GetAlbumMetadata(ctx, albumID)
	}
	return models.AlbumMetadata{}, err
}

// UpdateFields patches a subset of fields on one record.
func (s *Store) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("record %s not found", id)
	}
	return nil
}

// DeletePhoto removes one photo record.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "kind": models.KindPhoto})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("photo %s not found", id)
	}
	return nil
}
