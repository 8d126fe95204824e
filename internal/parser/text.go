package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
)

// TextParser handles plain text files. Blank lines separate blocks and a
// form feed starts a new page. All text shares the body style, so only
// structural heuristics can find headings.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var fb flowBuilder
	var para []string
	flush := func() {
		if len(para) > 0 {
			fb.addText(strings.Join(para, "\n"), sizeForLevel(0), false)
			para = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		for {
			before, after, found := strings.Cut(line, "\f")
			if !found {
				break
			}
			if strings.TrimSpace(before) != "" {
				para = append(para, before)
			}
			flush()
			fb.pageBreak()
			line = after
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fb.document(filename), nil
}
