package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose into an ASCII base letter plus marks.
var transliterations = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ı", "i",
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify reduces s to lowercase ASCII alphanumerics separated by single
// hyphens, with no leading or trailing hyphen. Accented letters keep their
// base letter; anything else becomes a separator.
func Slugify(s string) string {
	s = transliterations.Replace(s)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = nonAlnumRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
