package assistant

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
	"github.com/akhilvs/sarvajna/internal/domain/lang"
	"github.com/akhilvs/sarvajna/internal/infra/llm/perplexity"
)

const defaultTokenEncoding = "cl100k_base"

const defaultSystemPrompt = "You are a helpful assistant for a college. " +
	"Answer using only the facts provided. If the facts do not cover the question, say you don't know."

func languageInstruction(mode lang.Mode) string {
	switch mode {
	case lang.ModeMalayalam:
		return "Reply in Malayalam script."
	case lang.ModeManglish:
		return "Reply in Manglish (Malayalam written in Latin letters)."
	default:
		return "Reply in English."
	}
}

// buildMessages assembles the chat payload for the rephrasing call. The
// facts block is trimmed to the token budget so oversized entries never
// blow past the model context.
func buildMessages(cfg Config, enc *tiktoken.Tiktoken, question string, entry kb.Entry, factKey string, mode lang.Mode) []perplexity.Message {
	prompt := strings.TrimSpace(cfg.Prompt)
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	system := prompt + " " + languageInstruction(mode)

	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\nFacts:\n")
	budget := cfg.MaxPromptTokens
	used := countTokens(enc, sb.String())
	for _, fact := range entry.AnswerFacts {
		if factKey != "" && fact.Key != factKey {
			continue
		}
		line := "- " + strings.ReplaceAll(fact.Key, "_", " ") + ": " + fact.Value + "\n"
		if budget > 0 {
			cost := countTokens(enc, line)
			if used+cost > budget {
				break
			}
			used += cost
		}
		sb.WriteString(line)
	}
	sb.WriteString("Answer in three sentences or less.")

	return []perplexity.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: sb.String()},
	}
}

func countTokens(enc *tiktoken.Tiktoken, text string) int {
	if enc == nil {
		// Rough fallback when the encoding is unavailable.
		return len(strings.Fields(text))
	}
	return len(enc.Encode(text, nil, nil))
}
