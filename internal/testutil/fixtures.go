// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreatePhoto inserts a photo record with the given uploader, album id
// (empty for standalone), and upload time.
func (f *Fixtures) CreatePhoto(ctx context.Context, uploaderID, albumID string, uploadedAt time.Time) models.Photo {
	f.t.Helper()

	id := uuid.NewString()
	p := models.Photo{
		ID:           id,
		Kind:         models.KindPhoto,
		UploaderID:   uploaderID,
		UploaderName: "Test Uploader",
		AlbumID:      albumID,
		UploadedAt:   uploadedAt.UTC(),
		URL:          "https://photos.test/" + id + ".jpg",
		ThumbnailURL: "https://photos.test/thumb/" + id + ".jpg",
	}
	if _, err := f.db.Collection("catalog").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test photo: %v", err)
	}
	return p
}

// CreateAlbum inserts an AlbumMetadata record for the given grouping id.
func (f *Fixtures) CreateAlbum(ctx context.Context, albumID, uploaderID, name string, createdAt time.Time) models.AlbumMetadata {
	f.t.Helper()

	a := models.AlbumMetadata{
		ID:         models.AlbumMetadataID(albumID),
		Kind:       models.KindAlbum,
		AlbumID:    albumID,
		UploaderID: uploaderID,
		UploadedAt: createdAt.UTC(),
		Name:       name,
	}
	if a.Name == "" {
		a.Name = models.DefaultAlbumName(createdAt)
	}
	if _, err := f.db.Collection("catalog").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test album: %v", err)
	}
	return a
}

// CreateUser inserts a roster user.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, isAdmin bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		EmailCI:   text.Fold(email),
		Name:      name,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}
