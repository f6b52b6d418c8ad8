// Package names canonicalizes athlete display names so the same athlete is
// matched across GPS exports and questionnaire rows.
package names

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// cyrillic maps lower-case Cyrillic letters to the Serbian-based Latin
// romanization used for Russian names (ш→š, ж→ž, ч→č, ц→c, х→h, й→j).
// Upper-case input is lowered before lookup.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ж': "ž",
	'з': "z", 'и': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h",
	'ц': "c", 'ч': "č", 'ш': "š",
	// Russian
	'ё': "yo", 'й': "j", 'щ': "šč", 'ъ': "ʺ", 'ы': "y", 'ь': "ʹ",
	'э': "é", 'ю': "ju", 'я': "ja",
	// Serbian
	'ђ': "đ", 'ј': "j", 'љ': "lj", 'њ': "nj", 'ћ': "ć", 'џ': "dž",
}

var upper = cases.Upper(language.Und)

// Normalize returns the canonical form of a raw name: Unicode-composed,
// whitespace-collapsed, Latin-script and upper-case. Empty input is returned
// unchanged. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	s := transliterate(norm.NFC.String(raw))
	return upper.String(strings.Join(strings.Fields(s), " "))
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x0400 || r > 0x04FF {
			b.WriteRune(r)
			continue
		}
		lower := []rune(strings.ToLower(string(r)))[0]
		if latin, ok := cyrillic[lower]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
