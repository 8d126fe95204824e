// Package rank selects the sections of a document collection that best serve
// a persona and task, balancing relevance against redundancy with Maximal
// Marginal Relevance.
package rank

import "github.com/dgallion1/docsift/internal/doctree"

// Rerank picks up to topN sections by Maximal Marginal Relevance. vectors
// are the section embeddings, parallel to sections; extra entries on either
// side are ignored. The first pick is the section most similar to query;
// each later pick maximizes
//
//	lambda*rel(i) - (1-lambda)*max_{j selected} cos(i, j)
//
// Ties go to the lowest index. The returned sections are copies carrying
// ImportanceRank 1..k in selection order.
func Rerank(query []float32, vectors [][]float32, sections []doctree.Section, lambda float64, topN int) []doctree.Section {
	n := min(len(vectors), len(sections))
	if n == 0 || topN <= 0 {
		return []doctree.Section{}
	}
	k := min(topN, n)

	norms := make([]float64, n)
	for i := range n {
		norms[i] = CalculateNorm(vectors[i])
	}
	qNorm := CalculateNorm(query)
	rel := make([]float64, n)
	for i := range n {
		rel[i] = CosineSimilarityOptimized(query, vectors[i], qNorm, norms[i])
	}

	first := 0
	for i := 1; i < n; i++ {
		if rel[i] > rel[first] {
			first = i
		}
	}

	selected := []int{first}
	picked := make([]bool, n)
	picked[first] = true
	// maxSim[i] is the highest similarity of i to any selected section.
	maxSim := make([]float64, n)
	for i := range n {
		maxSim[i] = CosineSimilarityOptimized(vectors[i], vectors[first], norms[i], norms[first])
	}

	for len(selected) < k {
		best := -1
		var bestScore float64
		for i := range n {
			if picked[i] {
				continue
			}
			score := lambda*rel[i] - (1-lambda)*maxSim[i]
			if best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}
		selected = append(selected, best)
		picked[best] = true
		for i := range n {
			if picked[i] {
				continue
			}
			if s := CosineSimilarityOptimized(vectors[i], vectors[best], norms[i], norms[best]); s > maxSim[i] {
				maxSim[i] = s
			}
		}
	}

	out := make([]doctree.Section, len(selected))
	for rank, idx := range selected {
		out[rank] = sections[idx]
		out[rank].ImportanceRank = rank + 1
	}
	return out
}
