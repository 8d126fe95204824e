package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
)

// Parser converts raw document bytes into a styled layout Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes the parsers returned by ForFile.
type Options struct {
	// PDFFallback retries PDFs that ledongthuc/pdf cannot open with rsc.io/pdf.
	PDFFallback bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{Fallback: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Synthetic point sizes for formats that carry heading levels instead of
// font metrics. Index 0 is body text; 1..6 are heading levels.
var levelSizes = [7]float64{11, 24, 18, 15, 13, 12, 11}

func sizeForLevel(level int) float64 {
	if level < 0 || level >= len(levelSizes) {
		return levelSizes[0]
	}
	return levelSizes[level]
}

// flowBuilder accumulates blocks for formats without physical page
// geometry. Blocks land on the current page, which only advances on an
// explicit page break.
type flowBuilder struct {
	page   int
	blocks []doctree.Block
}

// add appends a block built from one or more lines of spans. Lines with no
// visible text are dropped and a block with no remaining lines is skipped.
func (f *flowBuilder) add(lines ...[]doctree.Span) {
	b := doctree.Block{Page: f.page}
	for _, spans := range lines {
		kept := trimSpans(spans)
		if len(kept) == 0 {
			continue
		}
		b.Lines = append(b.Lines, doctree.Line{Spans: kept})
	}
	if len(b.Lines) > 0 {
		f.blocks = append(f.blocks, b)
	}
}

// trimSpans drops blank spans at either end of a line and trims the outer
// whitespace of the spans that remain.
func trimSpans(spans []doctree.Span) []doctree.Span {
	start, end := 0, len(spans)
	for start < end && strings.TrimSpace(spans[start].Text) == "" {
		start++
	}
	for end > start && strings.TrimSpace(spans[end-1].Text) == "" {
		end--
	}
	if start == end {
		return nil
	}
	out := make([]doctree.Span, end-start)
	copy(out, spans[start:end])
	out[0].Text = strings.TrimLeft(out[0].Text, " \t")
	out[len(out)-1].Text = strings.TrimRight(out[len(out)-1].Text, " \t")
	return out
}

// addText splits text on newlines and adds it as one block in a single style.
func (f *flowBuilder) addText(text string, size float64, bold bool) {
	var lines [][]doctree.Span
	for _, l := range strings.Split(text, "\n") {
		lines = append(lines, []doctree.Span{{Text: l, FontSize: size, Bold: bold}})
	}
	f.add(lines...)
}

func (f *flowBuilder) pageBreak() {
	f.page++
}

// document assembles the collected blocks into pages. Trailing empty pages
// are dropped.
func (f *flowBuilder) document(name string) *doctree.Document {
	doc := &doctree.Document{Name: name}
	if len(f.blocks) == 0 {
		return doc
	}
	last := f.blocks[len(f.blocks)-1].Page
	doc.Pages = make([]doctree.Page, last+1)
	for i := range doc.Pages {
		doc.Pages[i].Index = i
	}
	for _, b := range f.blocks {
		doc.Pages[b.Page].Blocks = append(doc.Pages[b.Page].Blocks, b)
	}
	return doc
}
