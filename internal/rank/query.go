package rank

import (
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
)

// Context joins persona and task into the text keyphrases are drawn from.
func Context(persona, job string) string {
	return persona + ". " + job
}

// BuildQuery returns the retrieval query for a persona and task, enriched
// with key phrases when there are any.
func BuildQuery(persona, job string, keyphrases []string) string {
	q := Context(persona, job)
	if len(keyphrases) == 0 {
		return q
	}
	return q + " Key concepts are: " + strings.Join(keyphrases, " ")
}

// SectionText is the text embedded for a section.
func SectionText(s doctree.Section) string {
	return s.Title + ". " + s.Content
}
