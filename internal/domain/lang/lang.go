// Package lang classifies user input into the three language modes the
// assistant answers in and defines the transliteration contract used for
// voice-friendly Manglish output.
package lang

import "strings"

// Mode identifies how a question was written and how the answer should be
// phrased.
type Mode string

const (
	// ModeEnglish is plain English input.
	ModeEnglish Mode = "en"
	// ModeMalayalam is Malayalam script input.
	ModeMalayalam Mode = "ml_script"
	// ModeManglish is Malayalam written with Latin letters, or code-mixed
	// text that is not confidently English.
	ModeManglish Mode = "manglish"
)

// Detector decides whether Latin-script text is English. Implementations
// wrap an external language-identification library or service.
type Detector interface {
	IsEnglish(text string) bool
}

// Transliterator converts Malayalam script to Latin letters. A failed or
// unavailable transliteration returns the input unchanged.
type Transliterator interface {
	ToLatin(text string) string
}

// DetectMode classifies text. Any Malayalam code point forces ModeMalayalam;
// otherwise the detector arbitrates between English and Manglish. Empty input
// is English.
func DetectMode(text string, detector Detector) Mode {
	text = strings.TrimSpace(text)
	if text == "" {
		return ModeEnglish
	}
	if ContainsMalayalam(text) {
		return ModeMalayalam
	}
	if detector != nil && detector.IsEnglish(text) {
		return ModeEnglish
	}
	return ModeManglish
}

// ContainsMalayalam reports whether any rune falls in the Malayalam Unicode
// block (U+0D00 to U+0D7F).
func ContainsMalayalam(text string) bool {
	for _, r := range text {
		if r >= 0x0D00 && r <= 0x0D7F {
			return true
		}
	}
	return false
}

// Name returns a human readable label for a mode.
func Name(mode Mode) string {
	switch mode {
	case ModeEnglish:
		return "English"
	case ModeMalayalam:
		return "Malayalam"
	case ModeManglish:
		return "Manglish (Malayalam in English letters)"
	default:
		return "Unknown"
	}
}
