package llm

import (
	"fmt"
	"strings"
)

// Operation labels used for latency stats.
const (
	OpEmbed      = "embed"
	OpSummarize  = "summarize"
	OpKeyphrases = "keyphrases"
)

const SummaryPrompt = `Summarize the following document section for a reader who needs its most useful, concrete details.

Rules:
- Write between %d and %d words
- Keep names, places, numbers and instructions exactly as written
- Do not add information that is not in the section
- Do not refer to "the section" or "the text"; state the content directly

Respond with ONLY the summary, no other text.`

const KeyphrasePrompt = `Extract the %d most important key phrases from the following text. Each key phrase is one to three words taken from the text.

Rules:
- Prefer specific noun phrases over generic words
- Do not include stop words on their own
- Do not repeat a phrase

Respond with ONLY a JSON array of strings, no other text.`

// BuildSummaryPrompt creates the full summarization prompt for a passage.
func BuildSummaryPrompt(text string, minWords, maxWords int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(SummaryPrompt, minWords, maxWords))
	sb.WriteString("\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}

// BuildKeyphrasePrompt creates the full keyphrase prompt for a query text.
func BuildKeyphrasePrompt(text string, n int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(KeyphrasePrompt, n))
	sb.WriteString("\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}
