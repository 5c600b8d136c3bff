// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	userstore "github.com/averywhitlock/photocove/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// PhotoCove uses it to guarantee the roster has an admin: a fresh
// deployment with no users would otherwise have nobody who can invite the
// rest of the household.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		logger.Warn("admin_email not set; skipping admin bootstrap")
		return nil
	}

	u, err := userstore.New(deps.MongoDatabase).EnsureAdmin(ctx, appCfg.AdminName, appCfg.AdminEmail)
	if err != nil {
		return err
	}
	logger.Info("admin user ensured",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))
	return nil
}
