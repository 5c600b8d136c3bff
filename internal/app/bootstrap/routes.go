// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"strings"

	albumsfeature "github.com/averywhitlock/photocove/internal/app/features/albums"
	"github.com/averywhitlock/photocove/internal/app/features/annotations"
	healthfeature "github.com/averywhitlock/photocove/internal/app/features/health"
	loginfeature "github.com/averywhitlock/photocove/internal/app/features/login"
	photosfeature "github.com/averywhitlock/photocove/internal/app/features/photos"
	rosterfeature "github.com/averywhitlock/photocove/internal/app/features/roster"
	catalogstore "github.com/averywhitlock/photocove/internal/app/store/catalog"
	"github.com/averywhitlock/photocove/internal/app/store/loginverify"
	userstore "github.com/averywhitlock/photocove/internal/app/store/users"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/imaging"
	"github.com/averywhitlock/photocove/internal/app/system/mailer"
	"github.com/averywhitlock/photocove/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. PhotoCove's surface is JSON-only:
//
//	/health            liveness probe (no session)
//	/login/*           passwordless sign-in (no session)
//	/logout            clears the session
//	/me                identity of the signed-in caller
//	/photos/*          catalog listings, uploads, and per-photo annotations
//	/albums/*          album summaries, renames, and per-album annotations
//	/admin/users/*     roster management (admin only)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	pipeline, err := buildPipeline(appCfg)
	if err != nil {
		logger.Error("photo storage init failed", zap.Error(err))
		return nil, err
	}

	catalog := catalogstore.New(deps.MongoDatabase)
	users := userstore.New(deps.MongoDatabase)
	verify := loginverify.New(deps.MongoDatabase, appCfg.LoginExpiry)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	loginHandler := &loginfeature.Handler{
		Users:    users,
		Verify:   verify,
		Sessions: sessionMgr,
		Mail:     buildSender(appCfg, logger),
		BaseURL:  strings.TrimRight(appCfg.BaseURL, "/"),
		SiteName: appCfg.SiteName,
		Log:      logger,
		Limits:   ratelimit.NewSignInLimiter(),
	}
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Post("/logout", loginHandler.Logout)

	// Serve locally stored photos when the local backend is active. With
	// S3 the artifact URLs point at the bucket, not this server.
	if local, ok := pipeline.(*imaging.LocalPipeline); ok {
		prefix := strings.TrimRight(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, local.Dir()))
	}

	rosterHandler := rosterfeature.NewHandler(users, logger)
	photosHandler := photosfeature.NewHandler(catalog, pipeline, logger)
	albumsHandler := albumsfeature.NewHandler(catalog, logger)

	// Everything below requires a session.
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)

		r.Get("/me", rosterHandler.Me)
		r.Mount("/photos", photosfeature.Routes(photosHandler, annotations.ForPhotos(catalog, logger)))
		// The static /photos/albums segment wins over the {photoID}
		// param inside the photos subrouter.
		r.Mount("/photos/albums", albumsfeature.Routes(albumsHandler, annotations.ForAlbums(catalog, logger)))

		r.Group(func(r chi.Router) {
			r.Use(sessionMgr.RequireAdmin)
			r.Mount("/admin/users", rosterfeature.AdminRoutes(rosterHandler))
		})
	})

	return r, nil
}

// buildPipeline selects the photo storage backend from config.
func buildPipeline(appCfg AppConfig) (imaging.Pipeline, error) {
	if appCfg.StorageType == "s3" {
		return imaging.NewS3Pipeline(context.Background(), appCfg.StorageS3Bucket, appCfg.StorageS3Region)
	}
	baseURL := strings.TrimRight(appCfg.BaseURL, "/") + appCfg.StorageLocalURL
	return imaging.NewLocalPipeline(appCfg.StorageLocalPath, baseURL)
}

// buildSender picks SMTP delivery when a host is configured and falls back
// to logging sign-in emails, which keeps local development one process.
func buildSender(appCfg AppConfig, logger *zap.Logger) mailer.Sender {
	if appCfg.MailSMTPHost == "" {
		return &mailer.LogSender{Log: logger}
	}
	return &mailer.SMTPSender{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	}
}
