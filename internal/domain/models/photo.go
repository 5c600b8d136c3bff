// internal/domain/models/photo.go
package models

import "time"

// Record kinds stored in the catalog collection. Every record carries a
// kind so the chronological access path can scan one kind at a time.
const (
	KindPhoto = "photo"
	KindAlbum = "album"
)

// GeoPoint is an optional capture location taken from EXIF GPS data.
type GeoPoint struct {
	Latitude  float64  `bson:"latitude" json:"latitude"`
	Longitude float64  `bson:"longitude" json:"longitude"`
	Altitude  *float64 `bson:"altitude,omitempty" json:"altitude,omitempty"`
}

// Photo is a single uploaded image plus its metadata, stored denormalized
// in the catalog collection.
//
// Kind, UploaderID, AlbumID, and UploadedAt are the index keys consumed by
// the three read paths (chronological, by-uploader, by-album). AlbumName is
// denormalized from the owning AlbumMetadata and is rewritten on every
// album rename.
type Photo struct {
	ID         string    `bson:"_id" json:"id"`
	Kind       string    `bson:"kind" json:"-"`
	UploaderID string    `bson:"uploader_id" json:"uploaderId"`
	AlbumID    string    `bson:"album_id,omitempty" json:"albumId,omitempty"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploadedAt"`

	URL          string     `bson:"url" json:"url"`
	ThumbnailURL string     `bson:"thumbnail_url" json:"thumbnailUrl"`
	OriginalURL  string     `bson:"original_url" json:"originalUrl"`
	StorageKey   string     `bson:"storage_key" json:"-"`
	Caption      string     `bson:"caption,omitempty" json:"caption,omitempty"`
	AlbumName    string     `bson:"album_name,omitempty" json:"albumName,omitempty"`
	UploaderName string     `bson:"uploader_name,omitempty" json:"uploaderName,omitempty"`
	TakenAt      *time.Time `bson:"taken_at,omitempty" json:"takenAt,omitempty"`
	Location     *GeoPoint  `bson:"location,omitempty" json:"location,omitempty"`

	Tags      []string   `bson:"tags,omitempty" json:"tags"`
	Comments  []Comment  `bson:"comments,omitempty" json:"comments"`
	Reactions []Reaction `bson:"reactions,omitempty" json:"reactions"`
}

// Standalone reports whether the photo belongs to no album.
func (p Photo) Standalone() bool { return p.AlbumID == "" }
