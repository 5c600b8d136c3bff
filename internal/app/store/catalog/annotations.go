// internal/app/store/catalog/annotations.go

// Annotation operations apply to any record in the collection, photo or
// album metadata alike: both carry the same reactions/comments/tags arrays.
//
// Each operation is a read-modify-write of one array field. Concurrent
// writers to the same record are last-write-wins per field; the household
// scale this serves does not justify per-element update operators.
package catalogstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/averywhitlock/photocove/internal/app/policy/annotationpolicy"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/normalize"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Author identifies who performed an annotation.
type Author struct {
	ID   string
	Name string
}

// ToggleReaction adds the author's reaction of the given type, or removes
// it if present. added reports which way the toggle went; the returned
// reaction is the one added or removed.
func (s *Store) ToggleReaction(ctx context.Context, ownerID string, by Author, typ string) (models.Reaction, bool, error) {
	typ = normalize.ReactionType(typ)
	if typ == "" {
		return models.Reaction{}, false, apperr.Validation("reaction type is required")
	}

	rec, err := s.loadAnnotations(ctx, ownerID)
	if err != nil {
		return models.Reaction{}, false, err
	}

	updated, r, added := toggleReaction(rec.Reactions, by, typ, time.Now().UTC())
	if err := s.writeAnnotations(ctx, ownerID, "reactions", updated); err != nil {
		return models.Reaction{}, false, err
	}
	return r, added, nil
}

// RemoveReaction deletes a reaction by id. Only the reaction's author or
// an admin may remove it; toggling is the usual path, this covers clients
// that hold the reaction id.
func (s *Store) RemoveReaction(ctx context.Context, ownerID, reactionID, requesterID string, requesterIsAdmin bool) error {
	rec, err := s.loadAnnotations(ctx, ownerID)
	if err != nil {
		return err
	}

	updated, removed, found := removeReaction(rec.Reactions, reactionID)
	if !found {
		return apperr.NotFound("reaction %s not found", reactionID)
	}
	if removed.AuthorID != requesterID && !requesterIsAdmin {
		return apperr.Forbidden("only the reaction author or an admin may remove it")
	}
	return s.writeAnnotations(ctx, ownerID, "reactions", updated)
}

// AddComment appends a comment and returns it with its server-assigned id.
func (s *Store) AddComment(ctx context.Context, ownerID string, by Author, body string) (models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return models.Comment{}, apperr.Validation("comment body is required")
	}

	rec, err := s.loadAnnotations(ctx, ownerID)
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
	if err := s.writeAnnotations(ctx, ownerID, "comments", append(rec.Comments, c)); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// DeleteComment removes a comment if the requester is its author or an
// admin.
func (s *Store) DeleteComment(ctx context.Context, ownerID, commentID, requesterID string, requesterIsAdmin bool) error {
	rec, err := s.loadAnnotations(ctx, ownerID)
	if err != nil {
		return err
	}

	updated, removed, found := removeComment(rec.Comments, commentID)
	if !found {
		return apperr.NotFound("comment %s not found", commentID)
	}
	if !annotationpolicy.CanDeleteComment(removed, requesterID, requesterIsAdmin) {
		return apperr.Forbidden("only the comment author or an admin may delete it")
	}
	return s.writeAnnotations(ctx, ownerID, "comments", updated)
}

// AddTag adds a normalized tag to the record's tag set.
func (s *Store) AddTag(ctx context.Context, ownerID, tag string) (string, error) {
	tag = normalize.Tag(tag)
	if tag == "" {
		return "", apperr.Validation("tag is required")
	}

	rec, err := s.loadAnnotations(ctx, ownerID)
	if err != nil {
		return "", err
	}
	for _, t := range rec.Tags {
		if t == tag {
			return "", apperr.Conflict("tag %q already present", tag)
		}
	}
	if err := s.writeAnnotations(ctx, ownerID, "tags", append(rec.Tags, tag)); err != nil {
		return "", err
	}
	return tag, nil
}

// RemoveTag removes a tag from the record's tag set.
func (s *Store) RemoveTag(ctx context.Context, ownerID, tag string) error {
	tag = normalize.Tag(tag)
	if tag == "" {
		return apperr.Validation("tag is required")
	}

	rec, err := s.loadAnnotations(ctx, ownerID)
	if err != nil {
		return err
	}

	updated := rec.Tags[:0:0]
	for _, t := range rec.Tags {
		if t != tag {
			updated = append(updated, t)
		}
	}
	if len(updated) == len(rec.Tags) {
		return apperr.NotFound("tag %q not present", tag)
	}
	return s.writeAnnotations(ctx, ownerID, "tags", updated)
}

type annotationDoc struct {
	Reactions []models.Reaction `bson:"reactions"`
	Comments  []models.Comment  `bson:"comments"`
	Tags      []string          `bson:"tags"`
}

func (s *Store) loadAnnotations(ctx context.Context, ownerID string) (annotationDoc, error) {
	var doc annotationDoc
	err := s.c.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return annotationDoc{}, apperr.NotFound("record %s not found", ownerID)
	}
	if err != nil {
		return annotationDoc{}, err
	}
	return doc, nil
}

func (s *Store) writeAnnotations(ctx context.Context, ownerID, field string, value any) error {
	res, err := s.c.UpdateByID(ctx, ownerID, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("record %s not found", ownerID)
	}
	return nil
}

// toggleReaction applies the toggle to a reaction list in memory.
func toggleReaction(list []models.Reaction, by Author, typ string, now time.Time) ([]models.Reaction, models.Reaction, bool) {
	if i := models.FindReaction(list, by.ID, typ); i >= 0 {
		removed := list[i]
		updated := append(append(list[:0:0], list[:i]...), list[i+1:]...)
		return updated, removed, false
	}
	r := models.Reaction{
		ID:         uuid.NewString(),
		Type:       typ,
		AuthorID:   by.ID,
		AuthorName: by.Name,
		CreatedAt:  now,
	}
	return append(append(list[:0:0], list...), r), r, true
}

// removeReaction drops the reaction with the given id, reporting whether
// it existed.
func removeReaction(list []models.Reaction, reactionID string) ([]models.Reaction, models.Reaction, bool) {
	for i, r := range list {
		if r.ID == reactionID {
			updated := append(append(list[:0:0], list[:i]...), list[i+1:]...)
			return updated, r, true
		}
	}
	return list, models.Reaction{}, false
}

// removeComment drops the comment with the given id, reporting whether it
// existed.
func removeComment(list []models.Comment, commentID string) ([]models.Comment, models.Comment, bool) {
	for i, c := range list {
		if c.ID == commentID {
			updated := append(append(list[:0:0], list[:i]...), list[i+1:]...)
			return updated, c, true
		}
	}
	return list, models.Comment{}, false
}
