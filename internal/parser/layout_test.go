package parser

import "testing"

func TestLayout_Blocks(t *testing.T) {
	glyphs := []Glyph{
		// Out of order on purpose: rows are sorted top-down, then by X.
		{S: "continues", Font: "Times-Roman", FontSize: 10, X: 50, Y: 648, W: 40},
		{S: "Annual", Font: "Arial-BoldMT", FontSize: 18, X: 50, Y: 700, W: 60},
		{S: "Report", Font: "Arial-BoldMT", FontSize: 18, X: 120, Y: 700.5, W: 60},
		{S: "Body", Font: "Times-Roman", FontSize: 10, X: 50, Y: 660, W: 20},
		{S: "text", Font: "Times-Roman", FontSize: 10, X: 74, Y: 660, W: 16},
		{S: " ", Font: "Times-Roman", FontSize: 10, X: 90, Y: 648, W: 3},
		{S: "here", Font: "Times-Roman", FontSize: 10, X: 93, Y: 648, W: 16},
		{S: "Next", Font: "Times-Roman", FontSize: 10, X: 50, Y: 600, W: 20},
		{S: "Bold", Font: "Helvetica-Bold", FontSize: 10, X: 50, Y: 560, W: 20},
		{S: "plain", Font: "Helvetica", FontSize: 10, X: 74, Y: 560, W: 20},
		{S: "", Font: "Helvetica", FontSize: 10, X: 0, Y: 0, W: 0},
	}

	blocks := NewLayout().Blocks(2, glyphs)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	for _, b := range blocks {
		if b.Page != 2 {
			t.Errorf("expected page 2, got %d", b.Page)
		}
	}

	title, _ := blocks[0].FirstSpan()
	if got := blocks[0].Lines[0].Text(); got != "Annual Report" {
		t.Errorf("expected %q, got %q", "Annual Report", got)
	}
	if !title.Bold || title.FontSize != 18 {
		t.Errorf("expected 18pt bold title span, got %+v", title)
	}

	body := blocks[1]
	if len(body.Lines) != 2 {
		t.Fatalf("expected 2 body lines, got %d", len(body.Lines))
	}
	if got := body.Lines[0].Text(); got != "Body text" {
		t.Errorf("expected %q, got %q", "Body text", got)
	}
	if got := body.Lines[1].Text(); got != "continues here" {
		t.Errorf("expected %q, got %q", "continues here", got)
	}

	mixed := blocks[3].Lines[0]
	if got := mixed.Text(); got != "Bold plain" {
		t.Errorf("expected %q, got %q", "Bold plain", got)
	}
	if len(mixed.Spans) != 2 || !mixed.Spans[0].Bold || mixed.Spans[1].Bold {
		t.Errorf("expected bold then plain span, got %+v", mixed.Spans)
	}
}

func TestLayout_NoGlyphs(t *testing.T) {
	if blocks := NewLayout().Blocks(0, nil); blocks != nil {
		t.Errorf("expected nil blocks, got %+v", blocks)
	}
	blank := []Glyph{{S: " ", FontSize: 10, X: 1, Y: 1, W: 1}}
	if blocks := NewLayout().Blocks(0, blank); blocks != nil {
		t.Errorf("expected nil blocks for whitespace-only page, got %+v", blocks)
	}
}

func TestLayout_StyleChangeSplitsBlock(t *testing.T) {
	glyphs := []Glyph{
		{S: "Heading", Font: "Arial-Bold", FontSize: 12, X: 50, Y: 700, W: 40},
		{S: "Body", Font: "Arial", FontSize: 12, X: 50, Y: 686, W: 20},
	}
	blocks := NewLayout().Blocks(0, glyphs)
	if len(blocks) != 2 {
		t.Fatalf("expected bold line and body line in separate blocks, got %d", len(blocks))
	}
}
