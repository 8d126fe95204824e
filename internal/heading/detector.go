package heading

import (
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/style"
)

// Detector decides whether a block opens a new section.
type Detector interface {
	IsHeading(b doctree.Block) bool
}

// Factory builds a Detector tuned to a particular document.
type Factory func(doc *doctree.Document) Detector

// Scored accepts blocks whose profile score exceeds MinScore.
type Scored struct {
	Profile style.Profile
}

// NewScored profiles doc and returns a Scored detector for it.
func NewScored(doc *doctree.Document) Detector {
	return Scored{Profile: style.ProfileDocument(doc)}
}

func (s Scored) IsHeading(b doctree.Block) bool {
	score, c := Score(b, s.Profile)
	return c != nil && score > MinScore
}

// Threshold accepts short lines that are either noticeably larger than the
// body size or bold.
type Threshold struct {
	BodySize float64
	Margin   float64 // points above BodySize
	MaxLen   int     // heading text must be shorter than this many characters
}

// DefaultBodySize is used when a document has no spans.
const DefaultBodySize = 12

// NewThreshold returns a Threshold detector using the most frequent rounded
// span size of doc as the body size.
func NewThreshold(doc *doctree.Document) Detector {
	return Threshold{BodySize: float64(BodySize(doc)), Margin: 1.5, MaxLen: 100}
}

func (t Threshold) IsHeading(b doctree.Block) bool {
	first, ok := b.FirstSpan()
	if !ok {
		return false
	}
	text := strings.TrimSpace(first.Text)
	if text == "" {
		return false
	}
	short := runeLen(text) < t.MaxLen && !strings.HasSuffix(text, ".")
	if first.FontSize > t.BodySize+t.Margin && short {
		return true
	}
	return first.Bold && short
}

// BodySize returns the most frequent rounded font size across all spans of
// doc, with ties going to the size seen first.
func BodySize(doc *doctree.Document) int {
	counts := make(map[int]int)
	var order []int
	for _, b := range doc.Blocks() {
		for _, l := range b.Lines {
			for _, s := range l.Spans {
				size := style.Round(s.FontSize)
				if _, seen := counts[size]; !seen {
					order = append(order, size)
				}
				counts[size]++
			}
		}
	}
	if len(order) == 0 {
		return DefaultBodySize
	}
	best := order[0]
	for _, size := range order[1:] {
		if counts[size] > counts[best] {
			best = size
		}
	}
	return best
}
