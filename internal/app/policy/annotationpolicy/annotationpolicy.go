// internal/app/policy/annotationpolicy/annotationpolicy.go

// Package annotationpolicy holds the authorization rules for annotations,
// separated from storage so handlers and stores share one source of truth.
package annotationpolicy

import "github.com/averywhitlock/photocove/internal/domain/models"

// CanDeleteComment reports whether the requester may remove the comment:
// the comment's author, or any admin.
func CanDeleteComment(c models.Comment, requesterID string, requesterIsAdmin bool) bool {
	return requesterIsAdmin || c.AuthorID == requesterID
}

// CanDeletePhoto reports whether the requester may remove a photo: its
// uploader, or any admin.
func CanDeletePhoto(p models.Photo, requesterID string, requesterIsAdmin bool) bool {
	return requesterIsAdmin || p.UploaderID == requesterID
}
