package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Run sizes and bold flags come from the
// run properties; paragraphs styled as headings or Title without explicit
// run formatting get a synthetic heading size.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return docxDocument(doc.Document.Body.Items, filename), nil
}

func docxDocument(items []interface{}, filename string) *doctree.Document {
	var fb flowBuilder
	for _, item := range items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		docxParagraph(para, &fb)
	}
	return fb.document(filename)
}

// docxParagraph adds one paragraph as a block. A page break inside the
// paragraph closes the block and starts the next page.
func docxParagraph(para *docx.Paragraph, fb *flowBuilder) {
	level := docxHeadingLevel(para)
	baseSize, baseBold := sizeForLevel(level), level > 0
	if para.Properties != nil && para.Properties.RunProperties != nil {
		baseSize, baseBold = runStyle(para.Properties.RunProperties, baseSize, baseBold)
	}

	lines := [][]doctree.Span{nil}
	addRun := func(run *docx.Run) {
		size, bold := baseSize, baseBold
		if run.RunProperties != nil {
			size, bold = runStyle(run.RunProperties, size, bold)
		}
		for _, rc := range run.Children {
			switch c := rc.(type) {
			case *docx.Text:
				last := len(lines) - 1
				lines[last] = append(lines[last], doctree.Span{Text: c.Text, FontSize: size, Bold: bold})
			case *docx.Tab:
				last := len(lines) - 1
				lines[last] = append(lines[last], doctree.Span{Text: " ", FontSize: size, Bold: bold})
			case *docx.BarterRabbet:
				if c.Type == "page" {
					fb.add(lines...)
					lines = [][]doctree.Span{nil}
					fb.pageBreak()
					continue
				}
				lines = append(lines, nil)
			}
		}
	}

	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			addRun(c)
		case *docx.Hyperlink:
			addRun(&c.Run)
		}
	}
	fb.add(lines...)
}

// runStyle applies explicit run properties over the inherited size and
// weight. w:sz is measured in half-points.
func runStyle(rp *docx.RunProperties, size float64, bold bool) (float64, bool) {
	if rp.Size != nil {
		if half, err := strconv.ParseFloat(rp.Size.Val, 64); err == nil && half > 0 {
			size = half / 2
		}
	}
	if rp.Bold != nil {
		bold = true
	}
	return size, bold
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 0
}
