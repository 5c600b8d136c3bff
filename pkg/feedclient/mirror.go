// pkg/feedclient/mirror.go
package feedclient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/normalize"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/google/uuid"
)

// TempIDPrefix marks locally minted ids awaiting server confirmation.
const TempIDPrefix = "tmp-"

// Identity is the signed-in user the mirror attributes optimistic entries
// to, matching what the server will record.
type Identity struct {
	ID   string
	Name string
}

// Annotations is the mirrored annotation state of one record.
type Annotations struct {
	Reactions []models.Reaction
	Comments  []models.Comment
	Tags      []string
}

func (a Annotations) clone() Annotations {
	return Annotations{
		Reactions: append([]models.Reaction(nil), a.Reactions...),
		Comments:  append([]models.Comment(nil), a.Comments...),
		Tags:      append([]string(nil), a.Tags...),
	}
}

// Mirror keeps a local copy of annotation state per record and applies
// mutations optimistically: the change lands in the mirror immediately
// under a temporary id, then the server call replaces it with the
// authoritative entry, or a failure rolls the record back to its
// pre-mutation snapshot and returns the error. There is no automatic
// retry.
//
// The mirror models one in-flight mutation per user action; if callers
// race two mutations on the same record, the later response wins. That is
// a known limitation, acceptable for a single interactive client.
type Mirror struct {
	mu      sync.Mutex
	client  *Client
	self    Identity
	records map[string]*mirrorEntry
}

type mirrorEntry struct {
	owner Owner
	a     Annotations
}

// NewMirror returns an empty mirror bound to a client and the signed-in
// identity.
func NewMirror(client *Client, self Identity) *Mirror {
	return &Mirror{
		client:  client,
		self:    self,
		records: make(map[string]*mirrorEntry),
	}
}

// SeedPhoto registers a fetched photo's annotation state, keyed by the
// photo id.
func (m *Mirror) SeedPhoto(p models.Photo) {
	m.seed(p.ID, PhotoOwner(p.ID), Annotations{
		Reactions: p.Reactions, Comments: p.Comments, Tags: p.Tags,
	})
}

// SeedAlbum registers a fetched album's annotation state, keyed by the
// album's grouping id.
func (m *Mirror) SeedAlbum(meta models.AlbumMetadata) {
	m.seed(meta.AlbumID, AlbumOwner(meta.AlbumID), Annotations{
		Reactions: meta.Reactions, Comments: meta.Comments, Tags: meta.Tags,
	})
}

func (m *Mirror) seed(key string, owner Owner, a Annotations) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = &mirrorEntry{owner: owner, a: a.clone()}
}

// Annotations returns a copy of the mirrored state for a seeded record.
func (m *Mirror) Annotations(key string) (Annotations, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.records[key]
	if !ok {
		return Annotations{}, false
	}
	return e.a.clone(), true
}

// ToggleReaction flips the user's reaction of the given type in the
// mirror, then dispatches. On failure the record reverts and the error is
// returned.
func (m *Mirror) ToggleReaction(ctx context.Context, key, typ string) (added bool, err error) {
	m.mu.Lock()
	e, ok := m.records[key]
	if !ok {
		m.mu.Unlock()
		return false, fmt.Errorf("record %s not seeded in mirror", key)
	}
	snapshot := e.a.clone()
	normalized := normalize.ReactionType(typ)

	tmpID := ""
	if i := models.FindReaction(e.a.Reactions, m.self.ID, normalized); i >= 0 {
		e.a.Reactions = append(e.a.Reactions[:i], e.a.Reactions[i+1:]...)
	} else {
		tmpID = TempIDPrefix + uuid.NewString()
		e.a.Reactions = append(e.a.Reactions, models.Reaction{
			ID:         tmpID,
			Type:       normalized,
			AuthorID:   m.self.ID,
			AuthorName: m.self.Name,
			CreatedAt:  time.Now().UTC(),
		})
	}
	owner := e.owner
	m.mu.Unlock()

	reaction, added, err := m.client.ToggleReaction(ctx, owner, typ)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		e.a = snapshot
		return false, err
	}
	if added && tmpID != "" {
		replaceReaction(e.a.Reactions, tmpID, reaction)
	}
	return added, nil
}

// AddComment appends the comment locally under a temporary id, then
// dispatches and swaps in the authoritative comment.
func (m *Mirror) AddComment(ctx context.Context, key, body string) (models.Comment, error) {
	m.mu.Lock()
	e, ok := m.records[key]
	if !ok {
		m.mu.Unlock()
		return models.Comment{}, fmt.Errorf("record %s not seeded in mirror", key)
	}
	snapshot := e.a.clone()

	tmp := models.Comment{
		ID:         TempIDPrefix + uuid.NewString(),
		Body:       body,
		AuthorID:   m.self.ID,
		AuthorName: m.self.Name,
		CreatedAt:  time.Now().UTC(),
	}
	e.a.Comments = append(e.a.Comments, tmp)
	owner := e.owner
	m.mu.Unlock()

	comment, err := m.client.AddComment(ctx, owner, body)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		e.a = snapshot
		return models.Comment{}, err
	}
	for i := range e.a.Comments {
		if e.a.Comments[i].ID == tmp.ID {
			e.a.Comments[i] = comment
			return comment, nil
		}
	}
	e.a.Comments = append(e.a.Comments, comment)
	return comment, nil
}

// DeleteComment removes the comment locally, then dispatches; a rejected
// delete (not the author, already gone) restores it.
func (m *Mirror) DeleteComment(ctx context.Context, key, commentID string) error {
	m.mu.Lock()
	e, ok := m.records[key]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("record %s not seeded in mirror", key)
	}
	snapshot := e.a.clone()
	for i, c := range e.a.Comments {
		if c.ID == commentID {
			e.a.Comments = append(e.a.Comments[:i], e.a.Comments[i+1:]...)
			break
		}
	}
	owner := e.owner
	m.mu.Unlock()

	err := m.client.DeleteComment(ctx, owner, commentID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		e.a = snapshot
		return err
	}
	return nil
}

// AddTag adds the normalized tag locally, then dispatches. The local form
// matches the server's normalization so a duplicate is caught either way.
func (m *Mirror) AddTag(ctx context.Context, key, tag string) (string, error) {
	m.mu.Lock()
	e, ok := m.records[key]
	if !ok {
		m.mu.Unlock()
		return "", fmt.Errorf("record %s not seeded in mirror", key)
	}
	snapshot := e.a.clone()
	normalized := normalize.Tag(tag)
	e.a.Tags = append(e.a.Tags, normalized)
	owner := e.owner
	m.mu.Unlock()

	confirmed, err := m.client.AddTag(ctx, owner, tag)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		e.a = snapshot
		return "", err
	}
	for i, t := range e.a.Tags {
		if t == normalized {
			e.a.Tags[i] = confirmed
			break
		}
	}
	return confirmed, nil
}

// RemoveTag drops the tag locally, then dispatches; failure restores it.
func (m *Mirror) RemoveTag(ctx context.Context, key, tag string) error {
	m.mu.Lock()
	e, ok := m.records[key]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("record %s not seeded in mirror", key)
	}
	snapshot := e.a.clone()
	normalized := normalize.Tag(tag)
	for i, t := range e.a.Tags {
		if t == normalized {
			e.a.Tags = append(e.a.Tags[:i], e.a.Tags[i+1:]...)
			break
		}
	}
	owner := e.owner
	m.mu.Unlock()

	err := m.client.RemoveTag(ctx, owner, tag)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		e.a = snapshot
		return err
	}
	return nil
}

// HasPending reports whether the record still holds any temporary ids,
// i.e. an optimistic entry the server has not yet confirmed.
func (m *Mirror) HasPending(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.records[key]
	if !ok {
		return false
	}
	for _, r := range e.a.Reactions {
		if strings.HasPrefix(r.ID, TempIDPrefix) {
			return true
		}
	}
	for _, c := range e.a.Comments {
		if strings.HasPrefix(c.ID, TempIDPrefix) {
			return true
		}
	}
	return false
}

func replaceReaction(list []models.Reaction, tmpID string, authoritative models.Reaction) {
	for i := range list {
		if list[i].ID == tmpID {
			list[i] = authoritative
			return
		}
	}
}
