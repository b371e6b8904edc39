// Package langdetect detects whether Latin-script input reads as English.
package langdetect

import (
	"github.com/pemistahl/lingua-go"

	langdomain "github.com/akhilvs/sarvajna/internal/domain/lang"
)

// LinguaDetector classifies text with a statistical language model. The
// candidate set mixes English with other Latin-script languages so that
// romanized Malayalam does not win by default, plus the Indian languages
// students actually type.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds the detector with preloaded models.
func NewLinguaDetector() *LinguaDetector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.Portuguese,
		lingua.Indonesian,
		lingua.Tagalog,
		lingua.Malayalam,
		lingua.Tamil,
		lingua.Hindi,
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithPreloadedLanguageModels().
		Build()
	return &LinguaDetector{detector: detector}
}

// IsEnglish implements lang.Detector.
func (d *LinguaDetector) IsEnglish(text string) bool {
	detected, ok := d.detector.DetectLanguageOf(text)
	return ok && detected == lingua.English
}

var _ langdomain.Detector = (*LinguaDetector)(nil)
