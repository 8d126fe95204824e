// Package style derives the typographic profile of a document: which
// font style is body text and which styles are candidates for headings.
package style

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docsift/internal/doctree"
)

// Key identifies a font style by rounded size and weight.
type Key struct {
	Size int
	Bold bool
}

// DefaultBody is the body style reported for documents with no text.
var DefaultBody = Key{Size: 10, Bold: false}

// Profile holds the body style of a document and the set of styles that
// stand out from it.
type Profile struct {
	Body     Key
	Headings map[Key]bool
}

// IsHeading reports whether k is one of the profile's heading styles.
func (p Profile) IsHeading(k Key) bool {
	return p.Headings[k]
}

// Round rounds a font size half-to-even.
func Round(size float64) int {
	return int(math.RoundToEven(size))
}

// KeyOf returns the style key of a span.
func KeyOf(s doctree.Span) Key {
	return Key{Size: Round(s.FontSize), Bold: s.Bold}
}

// IsBoldFont reports whether a font name denotes a bold face.
func IsBoldFont(name string) bool {
	return strings.Contains(strings.ToLower(name), "bold")
}

// ProfileDocument computes the style profile of doc. Each span contributes
// the character count of its trimmed text to its style; the style with the
// largest total is the body style, with ties going to the style seen first.
func ProfileDocument(doc *doctree.Document) Profile {
	weights := make(map[Key]int)
	var order []Key

	for _, p := range doc.Pages {
		for _, b := range p.Blocks {
			for _, l := range b.Lines {
				for _, s := range l.Spans {
					text := strings.TrimSpace(s.Text)
					if text == "" {
						continue
					}
					k := KeyOf(s)
					if _, seen := weights[k]; !seen {
						order = append(order, k)
					}
					weights[k] += utf8.RuneCountInString(text)
				}
			}
		}
	}

	if len(order) == 0 {
		return Profile{Body: DefaultBody, Headings: map[Key]bool{}}
	}

	body := order[0]
	for _, k := range order[1:] {
		if weights[k] > weights[body] {
			body = k
		}
	}

	headings := make(map[Key]bool)
	for _, k := range order {
		if k == body {
			continue
		}
		if k.Size > body.Size || (k.Bold && !body.Bold) {
			headings[k] = true
		}
	}
	return Profile{Body: body, Headings: headings}
}
