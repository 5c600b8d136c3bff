package indexes_test

import (
	"context"
	"testing"

	"github.com/averywhitlock/photocove/internal/app/system/indexes"
	"github.com/averywhitlock/photocove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	// A second run must reconcile against the existing indexes, not fail.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}

	cur, err := db.Collection("catalog").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list catalog indexes: %v", err)
	}
	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		names[idx.Name] = true
	}
	for _, want := range []string{"chronological", "by_uploader", "by_album"} {
		if !names[want] {
			t.Errorf("catalog index %q missing; have %v", want, names)
		}
	}
}

func TestEnsureAll_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"email_ci": "a@test.com"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{"email_ci": "a@test.com"}); err == nil {
		t.Error("duplicate email_ci insert should fail after EnsureAll")
	}
}
