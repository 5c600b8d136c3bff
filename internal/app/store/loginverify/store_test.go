package loginverify_test

import (
	"context"
	"testing"
	"time"

	"github.com/averywhitlock/photocove/internal/app/store/loginverify"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCodeRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := loginverify.New(db, 0)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	issued, err := s.Create(ctx, userID, "Avery@Example.com", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(issued.Code) != 6 {
		t.Errorf("code %q, want 6 digits", issued.Code)
	}

	// Wrong code consumes an attempt but does not consume the record.
	if _, err := s.VerifyCode(ctx, userID, "000000"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("wrong code = %v, want validation error", err)
	}

	v, err := s.VerifyCode(ctx, userID, issued.Code)
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if v.UserID != userID || v.EmailCI != "avery@example.com" {
		t.Errorf("verification = %+v", v)
	}

	// Single use.
	if _, err := s.VerifyCode(ctx, userID, issued.Code); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("second verify = %v, want not-found", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := loginverify.New(db, 0)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	issued, err := s.Create(ctx, userID, "a@example.com", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	v, err := s.VerifyToken(ctx, issued.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if v.UserID != userID {
		t.Errorf("token resolved wrong user")
	}

	if _, err := s.VerifyToken(ctx, issued.Token); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("reused token = %v, want not-found", err)
	}
	if _, err := s.VerifyToken(ctx, "bogus"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("bogus token = %v, want not-found", err)
	}
}

func TestAttemptLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := loginverify.New(db, 0)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	if _, err := s.Create(ctx, userID, "a@example.com", false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < loginverify.MaxVerifyAttempts; i++ {
		if _, err := s.VerifyCode(ctx, userID, "000000"); !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("attempt %d = %v, want validation error", i, err)
		}
	}
	if _, err := s.VerifyCode(ctx, userID, "000000"); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("after limit = %v, want forbidden", err)
	}
}

func TestResendRateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := loginverify.New(db, 0)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	if _, err := s.Create(ctx, userID, "a@example.com", false); err != nil {
		t.Fatalf("initial Create: %v", err)
	}
	for i := 0; i < loginverify.MaxResends; i++ {
		if _, err := s.Create(ctx, userID, "a@example.com", true); err != nil {
			t.Fatalf("resend %d: %v", i, err)
		}
	}
	if _, err := s.Create(ctx, userID, "a@example.com", true); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("resend past limit = %v, want conflict", err)
	}
}

func TestCreateReplacesPrevious(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := loginverify.New(db, 0)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	first, err := s.Create(ctx, userID, "a@example.com", false)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := s.Create(ctx, userID, "a@example.com", true)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	// Old code and token are dead once replaced.
	if _, err := s.VerifyToken(ctx, first.Token); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("old token = %v, want not-found", err)
	}
	if _, err := s.VerifyCode(ctx, userID, second.Code); err != nil {
		t.Errorf("new code: %v", err)
	}
}

func TestExpiry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if got := loginverify.New(db, 0).Expiry(); got != loginverify.DefaultExpiry {
		t.Errorf("default Expiry = %v, want %v", got, loginverify.DefaultExpiry)
	}
	if got := loginverify.New(db, 3*time.Minute).Expiry(); got != 3*time.Minute {
		t.Errorf("Expiry = %v, want 3m", got)
	}
}
