package parser

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/style"
)

// Glyph is one positioned text fragment as reported by a PDF content stream.
// Y grows upward, so higher Y is higher on the page.
type Glyph struct {
	S        string
	Font     string
	FontSize float64
	X, Y, W  float64
}

// Layout groups glyphs into lines, spans and blocks.
type Layout struct {
	RowTolerance        float64 // Y-coordinate tolerance for grouping into rows
	WordSpaceMultiplier float64 // Multiplier of font size to detect word boundaries
	BlockGapMultiplier  float64 // Multiplier of font size to detect a paragraph break
}

// NewLayout returns a Layout with defaults suited to typical text PDFs.
func NewLayout() *Layout {
	return &Layout{
		RowTolerance:        3.0,
		WordSpaceMultiplier: 0.3,
		BlockGapMultiplier:  1.6,
	}
}

type row struct {
	y      float64
	size   float64
	glyphs []Glyph
}

type laidLine struct {
	y    float64
	size float64
	line doctree.Line
}

// Blocks converts the glyphs of one page into blocks in top-to-bottom order.
func (la *Layout) Blocks(page int, glyphs []Glyph) []doctree.Block {
	var lines []laidLine
	for _, r := range la.rows(glyphs) {
		l := la.spans(r)
		if strings.TrimSpace(l.Text()) == "" {
			continue
		}
		lines = append(lines, laidLine{y: r.y, size: r.size, line: l})
	}
	if len(lines) == 0 {
		return nil
	}

	var blocks []doctree.Block
	cur := doctree.Block{Page: page, Lines: []doctree.Line{lines[0].line}}
	for i := 1; i < len(lines); i++ {
		prev, l := lines[i-1], lines[i]
		if la.breaks(prev, l) {
			blocks = append(blocks, cur)
			cur = doctree.Block{Page: page}
		}
		cur.Lines = append(cur.Lines, l.line)
	}
	return append(blocks, cur)
}

// breaks reports whether l starts a new block after prev: a vertical gap
// wider than the line height, or a change of leading style.
func (la *Layout) breaks(prev, l laidLine) bool {
	gap := prev.y - l.y
	if gap > la.BlockGapMultiplier*math.Max(prev.size, l.size) {
		return true
	}
	return leadKey(prev.line) != leadKey(l.line)
}

func leadKey(l doctree.Line) style.Key {
	for _, s := range l.Spans {
		if strings.TrimSpace(s.Text) != "" {
			return style.KeyOf(s)
		}
	}
	return style.Key{}
}

// rows buckets glyphs by baseline, top row first, each row sorted by X.
func (la *Layout) rows(glyphs []Glyph) []row {
	kept := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			kept = append(kept, g)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Y > kept[j].Y })

	var rows []row
	for _, g := range kept {
		n := len(rows)
		if n > 0 && math.Abs(rows[n-1].y-g.Y) <= la.RowTolerance {
			rows[n-1].glyphs = append(rows[n-1].glyphs, g)
			rows[n-1].size = math.Max(rows[n-1].size, g.FontSize)
			continue
		}
		rows = append(rows, row{y: g.Y, size: g.FontSize, glyphs: []Glyph{g}})
	}
	for i := range rows {
		gs := rows[i].glyphs
		sort.SliceStable(gs, func(a, b int) bool { return gs[a].X < gs[b].X })
	}
	return rows
}

// spans merges the glyphs of a row into runs of uniform font and size,
// inserting spaces where the horizontal gap exceeds the word threshold.
func (la *Layout) spans(r row) doctree.Line {
	var (
		out  []doctree.Span
		cur  strings.Builder
		prev *Glyph
	)
	var curFont string
	var curSize float64

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, doctree.Span{
				Text:     cur.String(),
				FontSize: curSize,
				FontName: curFont,
				Bold:     style.IsBoldFont(curFont),
			})
			cur.Reset()
		}
	}
	endsSpace := func() bool {
		if cur.Len() > 0 {
			return strings.HasSuffix(cur.String(), " ")
		}
		return len(out) == 0 || strings.HasSuffix(out[len(out)-1].Text, " ")
	}
	space := func() {
		switch {
		case endsSpace():
		case cur.Len() > 0:
			cur.WriteByte(' ')
		default:
			out[len(out)-1].Text += " "
		}
	}

	for i := range r.glyphs {
		g := r.glyphs[i]
		if strings.TrimSpace(g.S) == "" {
			space()
			prev = &r.glyphs[i]
			continue
		}
		if prev != nil {
			gap := g.X - (prev.X + prev.W)
			if gap > la.WordSpaceMultiplier*math.Max(g.FontSize, 1) {
				space()
			}
		}
		if cur.Len() > 0 && (g.Font != curFont || style.Round(g.FontSize) != style.Round(curSize)) {
			flush()
		}
		if cur.Len() == 0 {
			curFont, curSize = g.Font, g.FontSize
		}
		cur.WriteString(g.S)
		prev = &r.glyphs[i]
	}
	flush()
	if n := len(out); n > 0 {
		out[n-1].Text = strings.TrimRight(out[n-1].Text, " ")
	}
	return doctree.Line{Spans: out}
}
