// Package cursor implements the opaque pagination token used by all three
// catalog access paths.
//
// A cursor encodes the sort-key position (uploaded_at, id) of the last item
// returned on one access path, plus the path itself so a token minted for
// one path cannot be replayed against another. Clients must treat the token
// as a black box: Encode and Decode are symmetric and nothing else about
// the format is part of the contract.
//
// The catalog keys records by uuid strings rather than ObjectIDs, so the
// waffle keyset helpers (which assume ObjectID tie-breaks) are not used
// here; the window predicate is built locally in Window.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson"
)

// Cursor is the resume position for a descending uploaded_at scan.
type Cursor struct {
	Path       string    `json:"p"`
	UploadedAt time.Time `json:"t"`
	ID         string    `json:"id"`
}

// Path names for the three access paths. The chronological path carries the
// record kind so photo and album scans mint distinct tokens.
func Chronological(kind string) string  { return "chrono:" + kind }
func Uploader(uploaderID string) string { return "uploader:" + uploaderID }
func Album(albumID string) string       { return "album:" + albumID }

// Encode serializes the cursor to an opaque URL-safe token.
func (c Cursor) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a token and checks that it was minted for the given path.
// An empty token is valid and yields a nil cursor (start from the top).
func Decode(token, path string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperr.Validation("malformed lastKey")
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, apperr.Validation("malformed lastKey")
	}
	if c.Path != path {
		return nil, apperr.Validation("lastKey was issued for a different listing")
	}
	if c.UploadedAt.IsZero() || c.ID == "" {
		return nil, apperr.Validation("malformed lastKey")
	}
	return &c, nil
}

// Window returns the keyset filter resuming a descending (uploaded_at, _id)
// scan strictly after the cursor position. Records deleted since the cursor
// was minted are skipped silently: the predicate only cares about position,
// not about whether the anchor record still exists.
func (c *Cursor) Window() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"uploaded_at": bson.M{"$lt": c.UploadedAt}},
		bson.M{
			"uploaded_at": c.UploadedAt,
			"_id":         bson.M{"$lt": c.ID},
		},
	}}
}

// After reports whether a record at (uploadedAt, id) sorts strictly after
// the cursor position in the descending scan order. In-memory catalogs use
// this to apply the same window predicate Mongo evaluates server-side.
func (c *Cursor) After(uploadedAt time.Time, id string) bool {
	if uploadedAt.Before(c.UploadedAt) {
		return true
	}
	return uploadedAt.Equal(c.UploadedAt) && id < c.ID
}
