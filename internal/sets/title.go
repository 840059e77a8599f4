package sets

import (
	"strings"
	"unicode"
)

// NormalizeTitle canonicalizes a user-supplied title to Title Case: the
// trimmed input is lower-cased, split on single spaces, each word gets
// its first rune upper-cased, and the words are rejoined. The result is
// used as both the document key and the stored display title, so the
// same function runs on every write and read path. Titles differing only
// in case collide to the same set.
func NormalizeTitle(raw string) string {
	words := strings.Split(strings.ToLower(strings.TrimSpace(raw)), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
