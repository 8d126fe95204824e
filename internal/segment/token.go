package segment

import "strings"

// EstimateTokens gives a rough token count from the word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 0.75 words per token for English text.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// TruncateTokens cuts text to approximately maxTokens, on a word boundary.
// Text already within budget is returned unchanged.
func TruncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text
	}
	words := strings.Fields(text)
	keep := int(float64(maxTokens) / 1.33)
	if keep < 1 {
		keep = 1
	}
	if keep >= len(words) {
		return text
	}
	return strings.Join(words[:keep], " ")
}
