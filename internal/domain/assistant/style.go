package assistant

import (
	"strings"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
	"github.com/akhilvs/sarvajna/internal/domain/lang"
)

const (
	summaryPrefixEnglish   = "Here's what I know: "
	summaryPrefixMalayalam = "ഇതാ എനിക്കറിയാവുന്നത്: "

	notFoundEnglish   = "Sorry, I don't have information about that. Please contact the college office."
	notFoundMalayalam = "ക്ഷമിക്കണം, എനിക്ക് അതിനെക്കുറിച്ച് വിവരമില്ല. ദയവായി കോളേജ് ഓഫീസുമായി ബന്ധപ്പെടുക."
	notFoundManglish  = "Kshamikkanam, enikku athine kurichu vivaram illa. College office-il bandhappeduka."
)

func sanitizeStyle(style, fallback ResponseStyle) ResponseStyle {
	switch style {
	case StylePlain, StyleLLM, StyleVoice:
		return style
	}
	switch fallback {
	case StylePlain, StyleLLM, StyleVoice:
		return fallback
	}
	return StylePlain
}

// renderFact labels the fact with its humanized key, e.g.
// "library timing: 9 to 5".
func renderFact(key, value string) string {
	label := strings.ReplaceAll(key, "_", " ")
	return label + ": " + value
}

// renderVoiceFact keeps spoken answers short: the value alone reads
// naturally when played back.
func renderVoiceFact(value string) string {
	return value
}

// renderSummary joins the leading fact values when no single fact matched
// the question.
func renderSummary(mode lang.Mode, entry kb.Entry, maxFacts int) string {
	if maxFacts <= 0 {
		maxFacts = 3
	}
	values := make([]string, 0, maxFacts)
	for _, fact := range entry.AnswerFacts {
		if len(values) == maxFacts {
			break
		}
		value := strings.TrimSpace(fact.Value)
		if value == "" {
			continue
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return notFoundMessage(mode)
	}
	prefix := summaryPrefixEnglish
	if mode == lang.ModeMalayalam {
		prefix = summaryPrefixMalayalam
	}
	return prefix + strings.Join(values, "; ")
}

func notFoundMessage(mode lang.Mode) string {
	switch mode {
	case lang.ModeMalayalam:
		return notFoundMalayalam
	case lang.ModeManglish:
		return notFoundManglish
	default:
		return notFoundEnglish
	}
}
