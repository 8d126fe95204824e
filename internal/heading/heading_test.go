package heading

import (
	"testing"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/style"
)

func block(page int, size float64, bold bool, lines ...string) doctree.Block {
	b := doctree.Block{Page: page}
	for _, l := range lines {
		b.Lines = append(b.Lines, doctree.Line{Spans: []doctree.Span{{Text: l, FontSize: size, Bold: bold}}})
	}
	return b
}

func profile(body style.Key, headings ...style.Key) style.Profile {
	p := style.Profile{Body: body, Headings: map[style.Key]bool{}}
	for _, h := range headings {
		p.Headings[h] = true
	}
	return p
}

func TestScore_NumberedHeading(t *testing.T) {
	p := profile(style.Key{Size: 10}, style.Key{Size: 14})
	score, c := Score(block(0, 14, false, "2.1 Background"), p)
	if score != 38 {
		t.Errorf("expected score 38, got %d", score)
	}
	if c == nil || c.Text != "2.1 Background" {
		t.Fatalf("expected candidate text %q, got %+v", "2.1 Background", c)
	}
	if c.Style != (style.Key{Size: 14}) {
		t.Errorf("expected style (14,false), got %+v", c.Style)
	}
}

func TestScore_Adjustments(t *testing.T) {
	body := style.Key{Size: 10}
	big := style.Key{Size: 12}
	bold := style.Key{Size: 12, Bold: true}
	p := profile(body, big, bold)

	long := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty twentyone twentytwo twentythree twentyfour twentyfive twentysix"

	tests := []struct {
		name  string
		block doctree.Block
		want  int
	}{
		{"plain", block(0, 12, false, "Overview"), 10 + 4 + 5},
		{"bold", block(0, 12, true, "Overview"), 10 + 4 + 5 + 5},
		{"three lines", block(0, 12, false, "a", "b", "c"), 10 + 4},
		{"all caps multiword", block(0, 12, false, "GENERAL TERMS"), 10 + 4 + 5 + 5},
		{"all caps single word", block(0, 12, false, "SUMMARY"), 10 + 4 + 5},
		{"sentence", block(0, 12, false, "This is a sentence."), 10 + 4 + 5 - 15},
		{"numbered with dot", block(0, 12, false, "3. Results."), 10 + 4 + 5},
		{"too many words", block(0, 12, false, long), 10 + 4 + 5 - 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, c := Score(tt.block, p)
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
			if c == nil || c.Score != got {
				t.Errorf("expected candidate carrying score %d, got %+v", got, c)
			}
		})
	}
}

func TestScore_GateAndMalformed(t *testing.T) {
	p := profile(style.Key{Size: 10}, style.Key{Size: 14})

	if s, c := Score(block(0, 10, false, "Body text"), p); s != 0 || c != nil {
		t.Errorf("body style should not score, got %d %+v", s, c)
	}
	if s, c := Score(doctree.Block{}, p); s != 0 || c != nil {
		t.Errorf("block without lines should not score, got %d %+v", s, c)
	}
	if s, c := Score(doctree.Block{Lines: []doctree.Line{{}}}, p); s != 0 || c != nil {
		t.Errorf("line without spans should not score, got %d %+v", s, c)
	}
	if s, c := Score(block(0, 14, false, "   "), p); s != 0 || c != nil {
		t.Errorf("blank block should not score, got %d %+v", s, c)
	}
}

func TestBlockText_JoinsTrimmedLines(t *testing.T) {
	b := doctree.Block{Lines: []doctree.Line{
		{Spans: []doctree.Span{{Text: "  Getting "}, {Text: "Started "}}},
		{Spans: []doctree.Span{{Text: " with Go  "}}},
	}}
	if got := BlockText(b); got != "Getting Started with Go" {
		t.Errorf("expected %q, got %q", "Getting Started with Go", got)
	}
}

func TestCandidates_KeepsAboveMinScore(t *testing.T) {
	p := profile(style.Key{Size: 10}, style.Key{Size: 11})
	doc := &doctree.Document{Pages: []doctree.Page{{Blocks: []doctree.Block{
		block(0, 11, false, "Ends with a period."), // 10+2+5-15 = 2
		block(0, 11, false, "Heading"),             // 10+2+5 = 17
		block(0, 10, false, "body"),
	}}}}
	got := Candidates(doc, p)
	if len(got) != 1 || got[0].Text != "Heading" {
		t.Errorf("expected only %q, got %+v", "Heading", got)
	}
}

func TestIsUpper(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ABC DEF", true},
		{"ABC 123", true},
		{"Abc", false},
		{"123", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isUpper(tt.in); got != tt.want {
			t.Errorf("isUpper(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
