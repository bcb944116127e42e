// Package slug derives URL slugs from titles and filenames.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and drops combining marks, so
// "Café Motörhead" becomes "Cafe Motorhead" before slugging.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make lowercases the input, collapses every run of non-alphanumeric
// characters into a single hyphen and trims leading/trailing hyphens.
// Accented letters are transliterated to their ASCII base first.
func Make(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				sb.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimRight(sb.String(), "-")
}

// FromFilename slugs the stem of a content file name.
func FromFilename(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return Make(name)
}
