package doctree

// Document is the styled-layout view of a source file: pages of blocks of
// lines of spans, in the order the extractor produced them.
type Document struct {
	Name  string // Source filename
	Pages []Page
}

// Page is one page of a Document.
type Page struct {
	Index  int // 0-based
	Blocks []Block
}

// Block is a run of visually grouped lines (roughly a paragraph or a heading).
type Block struct {
	Page  int // 0-based page index
	Lines []Line
}

// Line is an ordered sequence of spans sharing a baseline.
type Line struct {
	Spans []Span
}

// Span is a run of text with uniform styling.
type Span struct {
	Text     string
	FontSize float64
	FontName string
	Bold     bool
}

// Text concatenates the text of every span in the line.
func (l Line) Text() string {
	if len(l.Spans) == 1 {
		return l.Spans[0].Text
	}
	var n int
	for _, s := range l.Spans {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range l.Spans {
		b = append(b, s.Text...)
	}
	return string(b)
}

// FirstSpan returns the first span of the first line. ok is false for
// blocks with no lines or whose first line has no spans.
func (b Block) FirstSpan() (Span, bool) {
	if len(b.Lines) == 0 || len(b.Lines[0].Spans) == 0 {
		return Span{}, false
	}
	return b.Lines[0].Spans[0], true
}

// Blocks returns every block of the document in page order.
func (d *Document) Blocks() []Block {
	var out []Block
	for _, p := range d.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}

// Section is a contiguous slice of a document headed by a detected heading.
type Section struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	PageNumber     int    `json:"page_number"` // 1-based
	Document       string `json:"document"`
	ImportanceRank int    `json:"importance_rank,omitempty"`
}

// Level is an outline heading level.
type Level string

const (
	LevelH1 Level = "H1"
	LevelH2 Level = "H2"
	LevelH3 Level = "H3"
)

// OutlineEntry is one heading in a document outline.
type OutlineEntry struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"` // 0-based
}

// Outline is the title plus ordered headings of a document.
type Outline struct {
	Title   string         `json:"title" yaml:"title"`
	Outline []OutlineEntry `json:"outline" yaml:"outline"`
}
