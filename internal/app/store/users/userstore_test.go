package userstore_test

import (
	"context"
	"testing"

	"github.com/averywhitlock/photocove/internal/app/store/users"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/indexes"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/averywhitlock/photocove/internal/testutil"
)

func setup(t *testing.T) (*userstore.Store, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return userstore.New(db), ctx
}

func TestCreateAndGet(t *testing.T) {
	s, ctx := setup(t)

	u, err := s.Create(ctx, models.User{Name: "  Avery  ", Email: "Avery@Example.COM"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Name != "Avery" {
		t.Errorf("Name = %q, want trimmed", u.Name)
	}
	if u.Email != "avery@example.com" {
		t.Errorf("Email = %q, want lowercased", u.Email)
	}

	// Lookup is case-insensitive.
	got, err := s.GetByEmail(ctx, "AVERY@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Error("GetByEmail returned a different user")
	}

	if _, err := s.Create(ctx, models.User{Name: "Dup", Email: "avery@example.com"}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("duplicate email = %v, want conflict", err)
	}
	if _, err := s.Create(ctx, models.User{Name: "", Email: "x@example.com"}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("empty name = %v, want validation error", err)
	}
}

func TestLastAdminGuard(t *testing.T) {
	s, ctx := setup(t)

	admin, err := s.Create(ctx, models.User{Name: "Admin", Email: "admin@example.com", IsAdmin: true})
	if err != nil {
		t.Fatalf("Create admin: %v", err)
	}
	member, err := s.Create(ctx, models.User{Name: "Member", Email: "member@example.com"})
	if err != nil {
		t.Fatalf("Create member: %v", err)
	}

	// Sole admin cannot be demoted or deleted.
	if err := s.Apply(ctx, admin.ID, userstore.Update{Name: "Admin", IsAdmin: false}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("demote sole admin = %v, want conflict", err)
	}
	if err := s.Delete(ctx, admin.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("delete sole admin = %v, want conflict", err)
	}

	// With a second admin the guard releases.
	if err := s.Apply(ctx, member.ID, userstore.Update{Name: "Member", IsAdmin: true}); err != nil {
		t.Fatalf("promote member: %v", err)
	}
	if err := s.Delete(ctx, admin.ID); err != nil {
		t.Errorf("delete admin with another present: %v", err)
	}

	// Non-admins delete freely.
	regular, _ := s.Create(ctx, models.User{Name: "R", Email: "r@example.com"})
	if err := s.Delete(ctx, regular.ID); err != nil {
		t.Errorf("delete regular user: %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	s, ctx := setup(t)

	first, err := s.EnsureAdmin(ctx, "Boot Admin", "boot@example.com")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if !first.IsAdmin {
		t.Error("EnsureAdmin must create an admin")
	}

	second, err := s.EnsureAdmin(ctx, "Different Name", "boot@example.com")
	if err != nil {
		t.Fatalf("EnsureAdmin again: %v", err)
	}
	if second.ID != first.ID {
		t.Error("EnsureAdmin created a second user for the same email")
	}

	users, err := s.List(ctx)
	if err != nil || len(users) != 1 {
		t.Errorf("List = %d users, err %v; want 1", len(users), err)
	}
}
