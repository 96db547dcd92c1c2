package label

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that survive NFD decomposition unchanged
var ligatures = strings.NewReplacer(
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

// Normalize converts a label into an identifier fragment: it transliterates to ASCII,
// turns every whitespace rune and hyphen into an underscore, strips commas and
// lower-cases the result. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(Transliterate(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ',':
			continue
		case r == '-' || unicode.IsSpace(r):
			b.WriteByte('_')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Season normalizes a season label such as "2019/2020" into "2019_2020".
func Season(text string) string {
	return Normalize(strings.ReplaceAll(text, "/", "_"))
}

// Transliterate replaces non-ASCII letters by their closest ASCII equivalent.
// Accents are removed by decomposition. Unicode spaces become ' ' and dashes '-';
// other runes without an ASCII form are dropped.
func Transliterate(s string) string {
	s = ligatures.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r <= unicode.MaxASCII:
			return r
		case unicode.IsSpace(r):
			return ' '
		case unicode.Is(unicode.Pd, r):
			return '-'
		default:
			return -1
		}
	}, result)
}
