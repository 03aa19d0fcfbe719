// Package variant adapts text handling to known legacy game builds, detected
// by sniffing the game title in the vocabulary document.
package variant

import "strings"

// ID identifies a detected game variant.
type ID int

const (
	// Identity applies no normalization.
	Identity ID = iota
	// LegacyPrefix strips the fast-display control token some legacy builds
	// bake into the raw encoding of choice and troop text. The token belongs
	// to the in-engine encoding only and is never re-added on write.
	LegacyPrefix
)

// fastDisplayToken is the control prefix stripped by LegacyPrefix.
const fastDisplayToken = `\>`

// knownTitles maps lower-cased game-title substrings to their variant.
// Future variants are added here, not plugged in at runtime.
var knownTitles = map[string]ID{
	"shadow of the arcana": LegacyPrefix,
	"arcana gaiden":        LegacyPrefix,
}

// Detect sniffs the game title. Unrecognized titles fall back to Identity.
func Detect(gameTitle string) ID {
	title := strings.ToLower(gameTitle)
	for sub, id := range knownTitles {
		if strings.Contains(title, sub) {
			return id
		}
	}
	return Identity
}

// Normalize prepares raw field text for use as a corpus key.
func Normalize(id ID, text string) string {
	if id == LegacyPrefix {
		return strings.TrimPrefix(text, fastDisplayToken)
	}
	return text
}
