// internal/domain/models/album.go
package models

import "time"

// AlbumMetadataIDPrefix is prepended to the album's grouping id to build the
// metadata record's _id. Photo ids are uuids, so the prefix keeps the two
// record kinds from ever colliding in the shared collection.
const AlbumMetadataIDPrefix = "album#"

// AlbumMetadata is the one-per-album record stored alongside member photos
// in the catalog collection. It is created implicitly the first time a photo
// is uploaded with a new album id, and never for standalone photos.
//
// UploadedAt is the upload time of the album's first photo, which is what
// the chronological album path sorts on.
type AlbumMetadata struct {
	ID         string    `bson:"_id" json:"id"`
	Kind       string    `bson:"kind" json:"-"`
	AlbumID    string    `bson:"album_id" json:"albumId"`
	UploaderID string    `bson:"uploader_id" json:"uploaderId"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploadedAt"`

	Name string `bson:"name" json:"name"`

	Comments  []Comment  `bson:"comments,omitempty" json:"comments"`
	Reactions []Reaction `bson:"reactions,omitempty" json:"reactions"`
	Tags      []string   `bson:"tags,omitempty" json:"tags"`
}

// AlbumMetadataID derives the metadata record id for a grouping id.
func AlbumMetadataID(albumID string) string {
	return AlbumMetadataIDPrefix + albumID
}

// DefaultAlbumName is the date-derived display name used until a member
// renames the album.
func DefaultAlbumName(firstUpload time.Time) string {
	return firstUpload.Format("January 2, 2006")
}
