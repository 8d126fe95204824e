// Package outline builds a document title and H1/H2/H3 outline from scored
// heading candidates.
package outline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/heading"
	"github.com/dgallion1/docsift/internal/style"
)

var numberPrefixRe = regexp.MustCompile(`^(\d+(\.\d+)*)\s*`)

// Extract profiles doc, scores its blocks and builds the outline.
func Extract(doc *doctree.Document) doctree.Outline {
	p := style.ProfileDocument(doc)
	return Build(heading.Candidates(doc, p))
}

// Build turns raw heading candidates into a title and a leveled outline.
// The input must be scored candidates; feeding an outline back in is not
// supported.
func Build(candidates []heading.Candidate) doctree.Outline {
	out := doctree.Outline{Outline: []doctree.OutlineEntry{}}
	if len(candidates) == 0 {
		return out
	}

	sorted := make([]heading.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	for _, c := range sorted {
		if c.Page == 0 {
			out.Title = c.Text
			break
		}
	}

	titleKey := strings.ToLower(out.Title)
	var rest []heading.Candidate
	for _, c := range sorted {
		if out.Title != "" && strings.ToLower(c.Text) == titleKey {
			continue
		}
		rest = append(rest, c)
	}

	levels := levelsByStyle(rest)

	entries := make([]doctree.OutlineEntry, 0, len(rest))
	for _, c := range rest {
		entries = append(entries, doctree.OutlineEntry{
			Level: levels[c.Style],
			Text:  cleanText(c.Text),
			Page:  c.Page,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Page != entries[j].Page {
			return entries[i].Page < entries[j].Page
		}
		return entries[i].Text < entries[j].Text
	})

	seen := make(map[string]bool)
	for _, e := range entries {
		key := strings.ToLower(e.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Outline = append(out.Outline, e)
	}
	return out
}

// levelsByStyle ranks the distinct styles of cs by font size, largest
// first, and maps them to H1, H2 and H3. Styles beyond the second are H3.
func levelsByStyle(cs []heading.Candidate) map[style.Key]doctree.Level {
	var styles []style.Key
	seen := make(map[style.Key]bool)
	for _, c := range cs {
		if !seen[c.Style] {
			seen[c.Style] = true
			styles = append(styles, c.Style)
		}
	}
	sort.SliceStable(styles, func(i, j int) bool {
		return styles[i].Size > styles[j].Size
	})

	levels := make(map[style.Key]doctree.Level, len(styles))
	for i, s := range styles {
		switch i {
		case 0:
			levels[s] = doctree.LevelH1
		case 1:
			levels[s] = doctree.LevelH2
		default:
			levels[s] = doctree.LevelH3
		}
	}
	return levels
}

func cleanText(s string) string {
	return strings.TrimSpace(numberPrefixRe.ReplaceAllString(s, ""))
}
