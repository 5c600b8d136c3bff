// internal/app/store/catalog/album.go
package catalogstore

import (
	"context"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// RenameAlbum updates the album's display name and cascades the
// denormalized album_name onto every member photo. The cascade is not
// transactional; a member written concurrently with the rename may briefly
// carry the old name until its next write.
func (s *Store) RenameAlbum(ctx context.Context, albumID, name string) error {
	res, err := s.c.UpdateByID(ctx, models.AlbumMetadataID(albumID), bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("album %s not found", albumID)
	}

	_, err = s.c.UpdateMany(ctx,
		bson.M{"kind": models.KindPhoto, "album_id": albumID},
		bson.M{"$set": bson.M{"album_name": name}})
	return err
}

// DeleteAlbumMetadata removes an album's metadata record. It refuses while
// member photos still reference the album: callers delete or reassign the
// members first.
func (s *Store) DeleteAlbumMetadata(ctx context.Context, albumID string) error {
	n, err := s.CountByAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("album %s still has %d photos", albumID, n)
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": models.AlbumMetadataID(albumID)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("album %s not found", albumID)
	}
	return nil
}
