// Package heading decides which layout blocks are headings. Two strategies
// are provided: a scored one driven by a document's style profile, and a
// fixed font-size threshold used for section segmentation.
package heading

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/style"
)

// MinScore is the score a block must exceed to be kept as a candidate.
const MinScore = 10

var (
	numberedRe    = regexp.MustCompile(`^\d+(\.\d+)*\s`)
	numberedDotRe = regexp.MustCompile(`^\d+\.`)
)

// Candidate is a block that scored as a likely heading.
type Candidate struct {
	Text  string
	Score int
	Style style.Key
	Page  int // 0-based
}

// BlockText joins the trimmed text of each line with single spaces.
func BlockText(b doctree.Block) string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, strings.TrimSpace(l.Text()))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Score rates how heading-like a block is under profile p. Blocks whose
// leading style is not one of the profile's heading styles score zero, as
// do blocks with no usable text. The candidate is returned whenever the
// score is computed; callers keep it only when the score exceeds MinScore.
func Score(b doctree.Block, p style.Profile) (int, *Candidate) {
	first, ok := b.FirstSpan()
	if !ok {
		return 0, nil
	}
	text := BlockText(b)
	if text == "" {
		return 0, nil
	}
	key := style.KeyOf(first)
	if !p.IsHeading(key) {
		return 0, nil
	}

	words := len(strings.Fields(text))
	score := 10
	score += (key.Size - p.Body.Size) * 2
	if key.Bold {
		score += 5
	}
	if len(b.Lines) < 3 {
		score += 5
	}
	if numberedRe.MatchString(text) {
		score += 15
	}
	if isUpper(text) && words > 1 {
		score += 5
	}
	if words > 25 || (strings.HasSuffix(text, ".") && !numberedDotRe.MatchString(text)) {
		score -= 15
	}

	return score, &Candidate{Text: text, Score: score, Style: key, Page: b.Page}
}

// Candidates scores every block of doc and returns those above MinScore in
// document order.
func Candidates(doc *doctree.Document, p style.Profile) []Candidate {
	var out []Candidate
	for _, b := range doc.Blocks() {
		score, c := Score(b, p)
		if c != nil && score > MinScore {
			out = append(out, *c)
		}
	}
	return out
}

// isUpper reports whether s has at least one cased letter and no lowercase
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
