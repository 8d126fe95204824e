package rank

import (
	"context"
	"strings"

	"github.com/dgallion1/docsift/internal/segment"
)

// Extractive summarizes by taking leading sentences. It is used when no
// generative model is configured or the model call fails.
type Extractive struct{}

// Summarize returns the leading sentences of text, stopping once minWords
// is reached and never exceeding maxWords words.
func (Extractive) Summarize(_ context.Context, text string, minWords, maxWords int) (string, error) {
	if maxWords <= 0 {
		maxWords = 150
	}
	text = strings.Join(strings.Fields(text), " ")

	var picked []string
	count := 0
	for _, s := range segment.SplitSentences(text) {
		if count >= minWords && count > 0 {
			break
		}
		words := strings.Fields(s)
		if count+len(words) > maxWords {
			if count < minWords || count == 0 {
				if rest := maxWords - count; rest > 0 {
					picked = append(picked, strings.Join(words[:rest], " "))
				}
			}
			break
		}
		picked = append(picked, s)
		count += len(words)
	}
	return strings.Join(picked, " "), nil
}
