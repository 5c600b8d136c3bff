// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, log
// level, request limits). AppConfig is everything specific to PhotoCove:
// the catalog database, session cookies, photo storage, and the sign-in
// email pipeline.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: photocove-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Photo storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/photos")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/media")
	StorageS3Region  string // AWS region (only used if StorageType is "s3")
	StorageS3Bucket  string // S3 bucket name

	// Email/SMTP configuration for sign-in codes and magic links.
	// A blank host swaps in the log-only sender for local development.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string // From email address (e.g., hello@photocove.example)

	// Base URL for magic links in sign-in emails.
	BaseURL string // e.g., "https://photos.example.com" or "http://localhost:3000"

	// SiteName appears in sign-in email subjects and bodies.
	SiteName string

	// Sign-in code/link expiry.
	LoginExpiry time.Duration

	// Admin bootstrap: created (or promoted) on startup so a fresh
	// deployment always has someone who can manage the roster.
	AdminName  string
	AdminEmail string
}
