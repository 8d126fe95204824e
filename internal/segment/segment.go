// Package segment splits a document into titled sections of body text.
package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/heading"
)

// IntroductionTitle names the section that collects text before the first
// detected heading.
const IntroductionTitle = "Introduction"

// Config controls segmentation behavior.
type Config struct {
	MinContentChars int             // Sections with trimmed content at or below this are dropped.
	Detector        heading.Factory // Builds the heading detector for each document.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinContentChars: 150,
		Detector:        heading.NewThreshold,
	}
}

// Segment walks doc's blocks in order and produces sections. Each detected
// heading closes the current section and opens a new one titled with the
// heading's first line. Malformed blocks are skipped.
func Segment(doc *doctree.Document, cfg Config) []doctree.Section {
	if cfg.MinContentChars <= 0 {
		cfg.MinContentChars = 150
	}
	if cfg.Detector == nil {
		cfg.Detector = heading.NewThreshold
	}
	detect := cfg.Detector(doc)

	var sections []doctree.Section
	current := doctree.Section{Title: IntroductionTitle, PageNumber: 1, Document: doc.Name}
	var content strings.Builder

	flush := func() {
		text := content.String()
		if utf8.RuneCountInString(strings.TrimSpace(text)) > cfg.MinContentChars {
			current.Content = text
			sections = append(sections, current)
		}
		content.Reset()
	}

	for _, p := range doc.Pages {
		for _, b := range p.Blocks {
			if _, ok := b.FirstSpan(); !ok {
				continue
			}
			if detect.IsHeading(b) {
				flush()
				current = doctree.Section{
					Title:      strings.TrimSpace(b.Lines[0].Text()),
					PageNumber: p.Index + 1,
					Document:   doc.Name,
				}
				continue
			}
			for _, l := range b.Lines {
				content.WriteString(l.Text())
				content.WriteString("\n")
			}
		}
	}
	flush()

	return sections
}
