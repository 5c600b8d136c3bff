// internal/app/store/users/userstore.go

// Package userstore manages the household roster. Membership is closed:
// only admins add users, and every signed-in user can see and annotate
// everything, so the only per-user distinction stored here is the admin
// flag.
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/normalize"
	"github.com/averywhitlock/photocove/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("no user with that email")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns the full roster sorted by name. A household roster is small
// enough that there is no pagination here.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new roster user after normalizing fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	if u.Name == "" {
		return models.User{}, apperr.Validation("name is required")
	}
	if u.Email == "" {
		return models.User{}, apperr.Validation("email is required")
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.Conflict("a user with this email already exists")
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the fields an admin may change on a roster user.
type Update struct {
	Name    string
	IsAdmin bool
}

// Apply updates a user. Demoting the last remaining admin is refused so the
// roster never ends up without one.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	upd.Name = normalize.Name(upd.Name)
	if upd.Name == "" {
		return apperr.Validation("name is required")
	}

	if !upd.IsAdmin {
		if err := s.guardLastAdmin(ctx, id); err != nil {
			return err
		}
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       upd.Name,
		"is_admin":   upd.IsAdmin,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// Delete removes a user from the roster, refusing to remove the last admin.
// The user's photos and annotations stay in the catalog.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.guardLastAdmin(ctx, id); err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// CountAdmins returns how many roster users carry the admin flag.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_admin": true})
}

// guardLastAdmin fails with a conflict when id is the only admin left.
func (s *Store) guardLastAdmin(ctx context.Context, id primitive.ObjectID) error {
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !target.IsAdmin {
		return nil
	}
	n, err := s.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apperr.Conflict("cannot remove the last admin")
	}
	return nil
}

// EnsureAdmin creates an admin user with the given email if none exists.
// Startup calls this so a fresh deployment has someone who can sign in.
func (s *Store) EnsureAdmin(ctx context.Context, name, email string) (models.User, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		return *existing, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return models.User{}, err
	}
	return s.Create(ctx, models.User{Name: name, Email: email, IsAdmin: true})
}
