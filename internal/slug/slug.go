package slug

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLen   = 40
	emptySlug    = "article"
	suffixLayout = "20060102-1504"
)

// cyrillic maps lowercase Cyrillic letters to their Latin spelling.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Transliterate lowercases text and reduces it to [a-z0-9 ].
// Cyrillic goes through the fixed table, accented Latin letters lose their
// marks, everything else that is not a letter, digit or space is dropped.
func Transliterate(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if latin, ok := cyrillic[r]; ok {
			b.WriteString(latin)
			continue
		}
		switch {
		case isASCIIAlnum(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r > unicode.MaxASCII && unicode.IsLetter(r):
			for _, folded := range fold(r) {
				if isASCIIAlnum(folded) {
					b.WriteRune(folded)
				}
			}
		}
	}
	return b.String()
}

// Slug joins the transliterated words of title with hyphens, capped at 40 characters.
func Slug(title string) string {
	s := strings.Join(strings.Fields(Transliterate(title)), "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return emptySlug
	}
	return s
}

// MakeID returns the slug of title suffixed with the minute of at, e.g.
// "kak-nastroit-targeting-20260301-1005". Two runs within the same minute
// on the same title produce the same ID.
func MakeID(title string, at time.Time) string {
	return Slug(title) + "-" + at.Format(suffixLayout)
}

func fold(r rune) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, string(r))
	if err != nil {
		return ""
	}
	return strings.ToLower(out)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
