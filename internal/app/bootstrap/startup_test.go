package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/averywhitlock/photocove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestStartup_EnsuresAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{AdminName: "Boot Admin", AdminEmail: "admin@photocove.test"}

	if err := Startup(ctx, nil, appCfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	// Running twice must not create a second admin.
	if err := Startup(ctx, nil, appCfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("second Startup: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"is_admin": true})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if n != 1 {
		t.Errorf("admin count = %d, want 1", n)
	}
}

func TestStartup_SkipsWithoutEmail(t *testing.T) {
	// No admin email configured; Startup must be a no-op, not an error.
	if err := Startup(context.Background(), nil, AppConfig{}, DBDeps{}, zap.NewNop()); err != nil {
		t.Fatalf("Startup without admin_email: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	log := zap.NewNop()

	ok := AppConfig{MongoURI: "mongodb://localhost:27017", StorageType: "local", StorageLocalPath: "./uploads"}
	if err := ValidateConfig(nil, ok, log); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := []AppConfig{
		{MongoURI: "not-a-uri", StorageType: "local", StorageLocalPath: "./uploads"},
		{MongoURI: "mongodb://localhost:27017", StorageType: "s3"},
		{MongoURI: "mongodb://localhost:27017", StorageType: "ftp"},
	}
	for i, cfg := range bad {
		if err := ValidateConfig(nil, cfg, log); err == nil {
			t.Errorf("config %d accepted, want error", i)
		}
	}
}
