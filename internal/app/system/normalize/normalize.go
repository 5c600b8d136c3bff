// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email lowercases and trims an email address for storage and lookups.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Tag folds a tag for set-membership comparison: trimmed, lowercased, and
// diacritics stripped, with inner whitespace collapsed to single spaces.
// "  Beach Day " and "beach   day" normalize to the same tag.
func Tag(s string) string {
	folded := text.Fold(strings.TrimSpace(s))
	return strings.Join(strings.Fields(folded), " ")
}

// ReactionType trims a reaction type string. Type identity is
// case-sensitive ("HEART" and "heart" are different reactions), so only
// surrounding whitespace is removed.
func ReactionType(s string) string {
	return strings.TrimSpace(s)
}
