package llm

import "strings"

// answerLabels are lead-ins models sometimes echo back from the prompt.
var answerLabels = []string{
	"rewritten summary:",
	"rewritten bullets:",
	"rewritten paragraph:",
	"summary:",
	"paragraph:",
}

// CleanText strips markdown fences, echoed answer labels and wrapping quotes from a
// plain-text model answer.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	lower := strings.ToLower(text)
	for _, label := range answerLabels {
		if strings.HasPrefix(lower, label) {
			text = strings.TrimSpace(text[len(label):])
			break
		}
	}

	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}
