// internal/app/store/loginverify/store.go

// Package loginverify manages pending sign-in verifications: a bcrypt-hashed
// 6-digit code plus a magic-link token, both single use, expiring via the
// TTL index on expires_at.
package loginverify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenLength is the magic-link token size in bytes (32 bytes = 64 hex chars).
	TokenLength = 32
	// DefaultExpiry is how long a sign-in code is valid.
	DefaultExpiry = 10 * time.Minute
	// BcryptCost for hashing codes.
	BcryptCost = 10
	// MaxVerifyAttempts is the maximum number of code checks per verification.
	MaxVerifyAttempts = 5
	// MaxResends is the maximum number of code resends within ResendWindow.
	MaxResends = 3
	// ResendWindow is the rate-limit window for resends.
	ResendWindow = 10 * time.Minute
)

// Verification is one pending sign-in.
type Verification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	EmailCI     string             `bson:"email_ci"`
	CodeHash    string             `bson:"code_hash"`  // bcrypt hash of the 6-digit code
	Token       string             `bson:"token"`      // magic-link token
	ExpiresAt   time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt   time.Time          `bson:"created_at"`
	Attempts    int                `bson:"attempts"`
	ResendCount int                `bson:"resend_count"`
	WindowStart time.Time          `bson:"window_start"`
}

// Store manages sign-in verification records.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the given code expiry; zero or negative falls
// back to DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("login_verifications"),
		expiry: expiry,
	}
}

// Expiry returns how long issued codes stay valid.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Issued carries the plain-text secrets back to the caller for delivery.
type Issued struct {
	Code  string // to send via email
	Token string // for the magic link
}

// Create starts (or restarts) a verification for the user. Any previous
// pending verification for the same user is replaced. Resends count against
// the rate limit window.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string, isResend bool) (*Issued, error) {
	now := time.Now().UTC()

	var existing Verification
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&existing)
	existingFound := err == nil
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	resendCount := 0
	windowStart := now
	if existingFound && now.Before(existing.WindowStart.Add(ResendWindow)) {
		windowStart = existing.WindowStart
		resendCount = existing.ResendCount
		if isResend {
			if resendCount >= MaxResends {
				return nil, apperr.Conflict("too many codes requested; wait before retrying")
			}
			resendCount++
		}
	}

	code := generateCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}
	token := generateToken()

	// Replace any previous pending verification for this user.
	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, err
	}

	v := Verification{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		EmailCI:     text.Fold(email),
		CodeHash:    string(hash),
		Token:       token,
		ExpiresAt:   now.Add(s.expiry),
		CreatedAt:   now,
		ResendCount: resendCount,
		WindowStart: windowStart,
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}
	return &Issued{Code: code, Token: token}, nil
}

// VerifyCode checks a 6-digit code for the user. Every check, right or
// wrong, consumes an attempt; success consumes the record.
func (s *Store) VerifyCode(ctx context.Context, userID primitive.ObjectID, code string) (*Verification, error) {
	var v Verification
	err := s.c.FindOne(ctx, bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("no pending sign-in code; request a new one")
	}
	if err != nil {
		return nil, err
	}

	if v.Attempts >= MaxVerifyAttempts {
		return nil, apperr.Forbidden("too many attempts; request a new code")
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$inc": bson.M{"attempts": 1}}); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		return nil, apperr.Validation("incorrect sign-in code")
	}

	// Single use.
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": v.ID}); err != nil {
		return nil, err
	}
	return &v, nil
}

// VerifyToken checks a magic-link token. Success consumes the record.
func (s *Store) VerifyToken(ctx context.Context, token string) (*Verification, error) {
	var v Verification
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("sign-in link expired or already used")
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": v.ID}); err != nil {
		return nil, err
	}
	return &v, nil
}

// generateCode returns a random 6-digit numeric code. Panics if the
// system's cryptographic random number generator fails.
func generateCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%06d", (n%900000)+100000)
}

// generateToken returns a random magic-link token. Panics if the system's
// cryptographic random number generator fails.
func generateToken() string {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
