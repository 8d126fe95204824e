package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/docsift/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"
)

// PDFParser handles PDF files. It reads positioned glyphs with
// ledongthuc/pdf and, when Fallback is set, retries with rsc.io/pdf if the
// first reader cannot open the file.
type PDFParser struct {
	Fallback bool
	Layout   *Layout
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	la := p.Layout
	if la == nil {
		la = NewLayout()
	}

	pages, err := ledongthucPages(data)
	if err != nil && p.Fallback {
		var ferr error
		pages, ferr = rscPages(data)
		if ferr != nil {
			return nil, fmt.Errorf("extract pdf text: %w (fallback: %v)", err, ferr)
		}
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := &doctree.Document{Name: filename, Pages: make([]doctree.Page, len(pages))}
	for i, glyphs := range pages {
		doc.Pages[i] = doctree.Page{Index: i, Blocks: la.Blocks(i, glyphs)}
	}
	return doc, nil
}

// ledongthucPages returns the glyphs of every page. Pages that cannot be
// read yield no glyphs so page indexes stay aligned.
func ledongthucPages(data []byte) (pages [][]Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	n := reader.NumPage()
	pages = make([][]Glyph, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts := page.Content().Text
		glyphs := make([]Glyph, len(texts))
		for j, t := range texts {
			glyphs[j] = Glyph{S: t.S, Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W}
		}
		pages[i-1] = glyphs
	}
	return pages, nil
}

func rscPages(data []byte) (pages [][]Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("fallback pdf reader panic: %v", rec)
		}
	}()
	reader, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	n := reader.NumPage()
	pages = make([][]Glyph, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts := page.Content().Text
		glyphs := make([]Glyph, len(texts))
		for j, t := range texts {
			glyphs[j] = Glyph{S: t.S, Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W}
		}
		pages[i-1] = glyphs
	}
	return pages, nil
}
