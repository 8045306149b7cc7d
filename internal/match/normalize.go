package match

import (
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits an identifier into lowercase words at case changes,
// digits and the separators "_", "-", "." and space.
func Words(s string) []string {
	return strings.Fields(strcase.ToDelimited(s, ' '))
}

// NormalizeIdent folds an identifier for fuzzy matching, so that
// "dateTime", "date_time" and "DATETIME" compare equal.
func NormalizeIdent(s string) string {
	return strings.Join(Words(s), "")
}

// Title derives a display title from an identifier, e.g.
// "blogPost" -> "Blog Post" and "seo_meta" -> "Seo Meta".
func Title(s string) string {
	words := Words(s)
	caser := cases.Title(language.English)

	for i, w := range words {
		words[i] = caser.String(w)
	}

	return strings.Join(words, " ")
}
