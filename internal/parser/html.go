package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Markup is sanitized with bluemonday's UGC
// policy first, which drops scripts, styles and other non-content elements.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	var fb flowBuilder
	if full, err := html.Parse(bytes.NewReader(raw)); err == nil {
		if title := findTitle(full); title != "" {
			fb.addText(title, sizeForLevel(1), true)
		}
	}

	clean := bluemonday.UGCPolicy().SanitizeBytes(raw)
	doc, err := html.Parse(bytes.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := htmlWalker{fb: &fb}
	if body := findBody(doc); body != nil {
		w.walk(body)
	} else {
		w.walk(doc)
	}
	w.flush()
	return fb.document(filename), nil
}

// htmlWalker collects loose inline text between block elements.
type htmlWalker struct {
	fb      *flowBuilder
	pending [][]doctree.Span
}

func (w *htmlWalker) flush() {
	if len(w.pending) > 0 {
		w.fb.add(w.pending...)
		w.pending = nil
	}
}

func (w *htmlWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			if len(w.pending) == 0 {
				w.pending = [][]doctree.Span{nil}
			}
			last := len(w.pending) - 1
			w.pending[last] = append(w.pending[last], doctree.Span{Text: collapseSpace(n.Data), FontSize: sizeForLevel(0)})
		}
		return
	case html.ElementNode:
		if level := headingLevel(n.Data); level > 0 {
			w.flush()
			w.fb.addText(textContent(n), sizeForLevel(level), true)
			return
		}
		switch n.Data {
		case "p", "li", "td", "th", "blockquote", "pre", "dt", "dd", "caption":
			w.flush()
			w.fb.add(htmlInline(n)...)
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if n.Type == html.ElementNode {
		w.flush()
	}
}

// htmlInline returns the lines of spans under n, splitting at <br> and
// marking text inside b or strong as bold.
func htmlInline(n *html.Node) [][]doctree.Span {
	lines := [][]doctree.Span{nil}
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, bold bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				last := len(lines) - 1
				lines[last] = append(lines[last], doctree.Span{Text: collapseSpace(c.Data), FontSize: sizeForLevel(0), Bold: bold})
			case html.ElementNode:
				if c.Data == "br" {
					lines = append(lines, nil)
					continue
				}
				walk(c, bold || c.Data == "b" || c.Data == "strong")
			}
		}
	}
	walk(n, false)
	return lines
}

// collapseSpace folds runs of whitespace into single spaces, keeping one
// leading or trailing space so adjacent inline text stays separated.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	if c := s[len(s)-1]; c == ' ' || c == '\n' || c == '\t' {
		out += " "
	}
	return out
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
