// internal/domain/models/annotation.go
package models

import "time"

// Comment is embedded in exactly one Photo or AlbumMetadata record.
// It is deletable only by its author or an admin.
type Comment struct {
	ID         string    `bson:"id" json:"id"`
	Body       string    `bson:"body" json:"body"`
	AuthorID   string    `bson:"author_id" json:"authorId"`
	AuthorName string    `bson:"author_name,omitempty" json:"authorName,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Reaction is embedded in exactly one Photo or AlbumMetadata record.
// At most one reaction per (author, type) pair may exist on a record; a
// second request with the same pair toggles the first one off.
type Reaction struct {
	ID         string    `bson:"id" json:"id"`
	Type       string    `bson:"type" json:"type"`
	AuthorID   string    `bson:"author_id" json:"authorId"`
	AuthorName string    `bson:"author_name,omitempty" json:"authorName,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// FindReaction returns the index of the reaction with the given author and
// type, or -1.
func FindReaction(reactions []Reaction, authorID, typ string) int {
	for i, r := range reactions {
		if r.AuthorID == authorID && r.Type == typ {
			return i
		}
	}
	return -1
}
