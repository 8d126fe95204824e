package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|override|` +
		`new\s+instructions)`,
)

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// ValidateKeyphrase reports whether a model-produced phrase is usable:
// one to four words, at most 80 characters, and free of prompt-injection
// markers.
func ValidateKeyphrase(p string) bool {
	p = strings.TrimSpace(p)
	if p == "" || utf8.RuneCountInString(p) > 80 {
		return false
	}
	if n := len(strings.Fields(p)); n > 4 {
		return false
	}
	return !injectionPattern.MatchString(p)
}

// ParseKeyphrases decodes a model response holding a JSON array of strings
// and returns at most n valid, distinct phrases in response order.
func ParseKeyphrases(raw string, n int) ([]string, error) {
	text := stripCodeBlock(raw)
	var phrases []string
	if err := json.Unmarshal([]byte(text), &phrases); err != nil {
		return nil, fmt.Errorf("parse keyphrases json: %w (raw: %s)", err, truncate(text, 200))
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if !ValidateKeyphrase(p) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out, nil
}

// CleanSummary strips code fences and surrounding whitespace from a model
// summary.
func CleanSummary(raw string) (string, error) {
	s := strings.TrimSpace(stripCodeBlock(raw))
	if s == "" {
		return "", fmt.Errorf("empty summary")
	}
	return s, nil
}
