package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRe   = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpace  = regexp.MustCompile(`\s+`)
	dotlessFold = runes.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	})
)

// TurkishLower lower-cases s with Turkish dotted/dotless I rules ("I" -> "ı", "İ" -> "i").
func TurkishLower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// TurkishUpper upper-cases s with Turkish rules ("i" -> "İ", "ı" -> "I").
func TurkishUpper(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

// UpperFirst lower-cases s and then upper-cases its first letter, both with Turkish rules.
func UpperFirst(s string) string {
	s = TurkishLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return TurkishUpper(string(r)) + s[size:]
}

// Fold lower-cases s and strips diacritics so that "Şeker" and "seker" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), dotlessFold, norm.NFC)
	folded, _, err := transform.String(t, TurkishLower(s))
	if err != nil {
		return TurkishLower(s)
	}
	return folded
}

// Slugify builds an ASCII, hyphen-separated slug from a Turkish name.
func Slugify(s string) string {
	return strings.Trim(nonSlugRe.ReplaceAllString(Fold(s), "-"), "-")
}

// CollapseSpaces trims s and replaces whitespace runs with a single space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// TruncateRunes cuts s to at most max runes, appending an ellipsis when it had to cut.
func TruncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	const ellipsis = "..."
	if max <= len(ellipsis) {
		return string([]rune(s)[:max])
	}
	cut := strings.TrimSpace(string([]rune(s)[:max-len(ellipsis)]))
	return cut + ellipsis
}
