package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. ATX and setext
// headings become bold blocks sized by level; strong emphasis in body text
// becomes bold spans.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var fb flowBuilder
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		markdownBlock(n, src, &fb)
	}
	return fb.document(filename), nil
}

func markdownBlock(n ast.Node, src []byte, fb *flowBuilder) {
	switch node := n.(type) {
	case *ast.Heading:
		var parts []string
		for _, line := range inlineLines(node, src, true) {
			parts = append(parts, strings.TrimSpace(doctree.Line{Spans: line}.Text()))
		}
		fb.addText(strings.Join(parts, " "), sizeForLevel(node.Level), true)
	case *ast.Paragraph, *ast.TextBlock:
		fb.add(inlineLines(node, src, false)...)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		var buf strings.Builder
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		fb.addText(strings.TrimRight(buf.String(), "\n"), sizeForLevel(0), false)
	case *ast.ThematicBreak:
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			markdownBlock(c, src, fb)
		}
	}
}

// inlineLines flattens the inline children of a block into lines of spans,
// breaking at soft and hard line breaks.
func inlineLines(n ast.Node, src []byte, bold bool) [][]doctree.Span {
	lines := [][]doctree.Span{nil}
	emit := func(s string, b bool) {
		last := len(lines) - 1
		lines[last] = append(lines[last], doctree.Span{Text: s, FontSize: sizeForLevel(0), Bold: b})
	}

	var walk func(ast.Node, bool)
	walk = func(node ast.Node, b bool) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				emit(string(t.Segment.Value(src)), b)
				if t.SoftLineBreak() || t.HardLineBreak() {
					lines = append(lines, nil)
				}
			case *ast.String:
				emit(string(t.Value), b)
			case *ast.AutoLink:
				emit(string(t.Label(src)), b)
			case *ast.Emphasis:
				walk(t, b || t.Level >= 2)
			default:
				walk(t, b)
			}
		}
	}
	walk(n, bold)
	return lines
}
