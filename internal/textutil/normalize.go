package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

// suffixAnnotations matches release annotations that carry no identity:
// "(Original Mix)", "[Radio Edit]", "- Remastered 2011", and similar.
var suffixAnnotations = []*regexp.Regexp{
	regexp.MustCompile(`\s*[(\[][^)\]]*(original mix|radio edit|extended mix|club mix|remaster(ed)?( \d{4})?|re-?master|album version|single version|clean|explicit|bonus track)[^)\]]*[)\]]\s*$`),
	regexp.MustCompile(`\s*-\s*(original mix|radio edit|extended mix|club mix|remaster(ed)?( \d{4})?|re-?master|album version|single version)\s*$`),
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// NormalizeTitle lowercases and trims a track title and strips known suffix
// annotations so "Song (Original Mix)" and "song" compare equal. Stripping
// repeats until no annotation remains, handling stacked suffixes.
func NormalizeTitle(title string) string {
	normalized := strings.TrimSpace(lowerCaser.String(title))
	for {
		stripped := normalized
		for _, pattern := range suffixAnnotations {
			stripped = pattern.ReplaceAllString(stripped, "")
		}
		stripped = strings.TrimSpace(stripped)
		if stripped == normalized || stripped == "" {
			break
		}
		normalized = stripped
	}
	return whitespacePattern.ReplaceAllString(normalized, " ")
}

// NormalizeArtist lowercases and trims an artist name.
func NormalizeArtist(artist string) string {
	normalized := strings.TrimSpace(lowerCaser.String(artist))
	return whitespacePattern.ReplaceAllString(normalized, " ")
}
