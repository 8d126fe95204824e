package style

import (
	"testing"

	"github.com/dgallion1/docsift/internal/doctree"
)

func span(text string, size float64, bold bool) doctree.Span {
	return doctree.Span{Text: text, FontSize: size, Bold: bold}
}

func docOf(spans ...doctree.Span) *doctree.Document {
	var blocks []doctree.Block
	for _, s := range spans {
		blocks = append(blocks, doctree.Block{Lines: []doctree.Line{{Spans: []doctree.Span{s}}}})
	}
	return &doctree.Document{Pages: []doctree.Page{{Index: 0, Blocks: blocks}}}
}

func TestRound_HalfToEven(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{11.4, 11},
		{11.5, 12},
		{12.5, 12},
		{13.5, 14},
		{9.96, 10},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Helvetica-Bold", true},
		{"ABCDEF+Arial,BOLD", true},
		{"TimesNewRoman-BoldItalic", true},
		{"Helvetica", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBoldFont(tt.name); got != tt.want {
			t.Errorf("IsBoldFont(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProfileDocument_Empty(t *testing.T) {
	p := ProfileDocument(&doctree.Document{})
	if p.Body != DefaultBody {
		t.Errorf("expected default body %+v, got %+v", DefaultBody, p.Body)
	}
	if len(p.Headings) != 0 {
		t.Errorf("expected no heading styles, got %v", p.Headings)
	}
}

func TestProfileDocument_BodyAndHeadings(t *testing.T) {
	doc := docOf(
		span("Report Title", 18, true),
		span("A fairly long paragraph of body text that dominates the page.", 10.2, false),
		span("Section", 14, false),
		span("Emphasis", 10, true),
		span("tiny footnote", 8, false),
	)
	p := ProfileDocument(doc)

	if p.Body != (Key{10, false}) {
		t.Fatalf("expected body (10,false), got %+v", p.Body)
	}
	for _, k := range []Key{{18, true}, {14, false}, {10, true}} {
		if !p.IsHeading(k) {
			t.Errorf("expected %+v to be a heading style", k)
		}
	}
	if p.IsHeading(Key{8, false}) {
		t.Error("smaller non-bold style must not be a heading style")
	}
	if p.IsHeading(p.Body) {
		t.Error("body style must not be a heading style")
	}
}

func TestProfileDocument_WeightsByTrimmedLength(t *testing.T) {
	// Whitespace padding must not count toward the weight.
	doc := docOf(
		span("abc", 12, false),
		span("   ab   ", 14, false),
		span("   ", 16, false),
	)
	p := ProfileDocument(doc)
	if p.Body != (Key{12, false}) {
		t.Errorf("expected body (12,false), got %+v", p.Body)
	}
	if p.IsHeading(Key{16, false}) {
		t.Error("style with only whitespace spans must not be profiled")
	}
}

func TestProfileDocument_TieFirstSeenWins(t *testing.T) {
	doc := docOf(span("abcd", 14, false), span("wxyz", 12, false))
	p := ProfileDocument(doc)
	if p.Body != (Key{14, false}) {
		t.Errorf("expected first-seen style to win tie, got %+v", p.Body)
	}
	if len(p.Headings) != 0 {
		t.Errorf("expected no heading styles above a 14pt body, got %v", p.Headings)
	}
}

func TestProfileDocument_BoldBodyExcludesBoldHeadings(t *testing.T) {
	doc := docOf(
		span("bold body text that is long", 11, true),
		span("other bold", 11, false),
	)
	p := ProfileDocument(doc)
	if p.Body != (Key{11, true}) {
		t.Fatalf("expected bold body, got %+v", p.Body)
	}
	if len(p.Headings) != 0 {
		t.Errorf("expected no heading styles, got %v", p.Headings)
	}
}
