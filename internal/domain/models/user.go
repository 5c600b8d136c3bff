// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a roster record. Membership is invite-only: an admin creates the
// record, and the user signs in with a magic link sent to the email.
//
// EmailCI is the case-folded email used for the unique index and lookups.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email   string             `bson:"email" json:"email"`
	EmailCI string             `bson:"email_ci" json:"-"`
	Name    string             `bson:"name" json:"name"`
	IsAdmin bool               `bson:"is_admin" json:"isAdmin"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
