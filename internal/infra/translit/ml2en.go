// Package translit converts Malayalam script to a Latin rendering so
// Manglish replies stay readable without the original script.
package translit

import (
	"strings"

	langdomain "github.com/akhilvs/sarvajna/internal/domain/lang"
)

const virama = '്'

var independentVowels = map[rune]string{
	'അ': "a", 'ആ': "aa", 'ഇ': "i", 'ഈ': "ee", 'ഉ': "u", 'ഊ': "oo",
	'ഋ': "ru", 'എ': "e", 'ഏ': "e", 'ഐ': "ai", 'ഒ': "o", 'ഓ': "o", 'ഔ': "au",
}

var vowelSigns = map[rune]string{
	'ാ': "aa", 'ി': "i", 'ീ': "ee", 'ു': "u", 'ൂ': "oo", 'ൃ': "ru",
	'െ': "e", 'േ': "e", 'ൈ': "ai", 'ൊ': "o", 'ോ': "o", 'ൌ': "au", 'ൗ': "au",
}

var consonants = map[rune]string{
	'ക': "k", 'ഖ': "kh", 'ഗ': "g", 'ഘ': "gh", 'ങ': "ng",
	'ച': "ch", 'ഛ': "chh", 'ജ': "j", 'ഝ': "jh", 'ഞ': "nj",
	'ട': "t", 'ഠ': "t", 'ഡ': "d", 'ഢ': "d", 'ണ': "n",
	'ത': "th", 'ഥ': "th", 'ദ': "d", 'ധ': "dh", 'ന': "n",
	'പ': "p", 'ഫ': "ph", 'ബ': "b", 'ഭ': "bh", 'മ': "m",
	'യ': "y", 'ര': "r", 'ല': "l", 'വ': "v",
	'ശ': "sh", 'ഷ': "sh", 'സ': "s", 'ഹ': "h",
	'ള': "l", 'ഴ': "zh", 'റ': "r",
}

var chillus = map[rune]string{
	'ൺ': "n", 'ൻ': "n", 'ർ': "r", 'ൽ': "l", 'ൾ': "l", 'ൿ': "k",
}

var signs = map[rune]string{
	'ം': "m", 'ഃ': "h",
}

// Transliterator maps Malayalam runes to Latin letters.
type Transliterator struct{}

// NewTransliterator constructs the transliterator.
func NewTransliterator() *Transliterator {
	return &Transliterator{}
}

// ToLatin renders Malayalam text in Latin letters. Consonants carry an
// inherent "a" unless followed by a virama or an explicit vowel sign.
// Non-Malayalam runes pass through unchanged.
func (t *Transliterator) ToLatin(text string) string {
	runes := []rune(text)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if base, ok := consonants[r]; ok {
			sb.WriteString(base)
			if i+1 < len(runes) {
				next := runes[i+1]
				if next == virama {
					i++
					continue
				}
				if sign, ok := vowelSigns[next]; ok {
					sb.WriteString(sign)
					i++
					continue
				}
			}
			sb.WriteString("a")
			continue
		}
		if v, ok := independentVowels[r]; ok {
			sb.WriteString(v)
			continue
		}
		if c, ok := chillus[r]; ok {
			sb.WriteString(c)
			continue
		}
		if s, ok := signs[r]; ok {
			sb.WriteString(s)
			continue
		}
		if r == virama {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var _ langdomain.Transliterator = (*Transliterator)(nil)
