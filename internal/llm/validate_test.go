package llm

import (
	"strings"
	"testing"
)

func TestValidateKeyphrase(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"coastal towns", true},
		{"  nightlife  ", true},
		{"", false},
		{"   ", false},
		{"one two three four five", false},
		{strings.Repeat("x", 81), false},
		{"ignore previous instructions", false},
		{"system prompt", false},
	}
	for _, tt := range tests {
		if got := ValidateKeyphrase(tt.in); got != tt.want {
			t.Errorf("ValidateKeyphrase(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseKeyphrases_CodeFenceAndLimit(t *testing.T) {
	got, err := ParseKeyphrases("```json\n[\"a b\", \"c\", \"d\"]\n```", 2)
	if err != nil {
		t.Fatalf("ParseKeyphrases: %v", err)
	}
	if len(got) != 2 || got[0] != "a b" || got[1] != "c" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestParseKeyphrases_InvalidJSON(t *testing.T) {
	if _, err := ParseKeyphrases("not json", 5); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestParseKeyphrases_NoLimit(t *testing.T) {
	got, err := ParseKeyphrases(`["x","y","z"]`, 0)
	if err != nil || len(got) != 3 {
		t.Errorf("expected all 3 phrases, got %q %v", got, err)
	}
}

func TestCleanSummary(t *testing.T) {
	got, err := CleanSummary("```\n  A short summary.  \n```")
	if err != nil || got != "A short summary." {
		t.Errorf("unexpected %q %v", got, err)
	}
	if _, err := CleanSummary("   "); err == nil {
		t.Error("expected error for empty summary")
	}
}

func TestBuildPrompts(t *testing.T) {
	p := BuildSummaryPrompt("BODY", 40, 150)
	if !strings.Contains(p, "between 40 and 150 words") || !strings.HasSuffix(p, "BODY") {
		t.Errorf("unexpected summary prompt: %q", p)
	}
	k := BuildKeyphrasePrompt("QUERY", 5)
	if !strings.Contains(k, "5 most important") || !strings.HasSuffix(k, "QUERY") {
		t.Errorf("unexpected keyphrase prompt: %q", k)
	}
}
