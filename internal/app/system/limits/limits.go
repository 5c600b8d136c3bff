// internal/app/system/limits/limits.go
package limits

// Request and field size limits. These keep oversized requests from
// exhausting memory and keep embedded annotation arrays bounded.
const (
	// MaxUploadSize caps a multipart photo upload.
	MaxUploadSize = 32 << 20 // 32 MB

	// MaxJSONBodySize caps JSON mutation bodies (comments, tags,
	// reactions, renames).
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxCaptionLength is the maximum caption length in runes.
	MaxCaptionLength = 2000

	// MaxCommentLength is the maximum comment body length in runes.
	MaxCommentLength = 4000

	// MaxTagLength is the maximum normalized tag length in runes.
	MaxTagLength = 64

	// MaxReactionTypeLength is the maximum reaction type length in runes.
	// Reaction types are emoji or short tokens; anything longer is
	// malformed input.
	MaxReactionTypeLength = 32

	// MaxAlbumNameLength is the maximum album display name length in runes.
	MaxAlbumNameLength = 200
)
