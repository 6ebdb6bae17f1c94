package match

import (
	"sort"

	"github.com/dishscout/dishscout/internal/domain/dish"
)

// DefaultMinSimilarity is the similarity threshold applied when the
// caller does not supply one.
const DefaultMinSimilarity = 30

// ScoredMatch is a candidate dish annotated with its similarity to the
// target. Transient: recomputed per request, never persisted.
type ScoredMatch struct {
	Dish       dish.Descriptor
	Similarity int
}

// FindMatches scores every candidate against the target, keeps those at
// or above minSimilarity, and returns them sorted by similarity
// descending. The sort is stable, so equal scores preserve candidate
// input order; callers that pre-sort candidates nearest-first get a
// nearest-first tie-break for free. An empty candidate slice yields an
// empty result, not an error.
func FindMatches(target *dish.Descriptor, candidates []dish.Descriptor, minSimilarity int) []ScoredMatch {
	matches := make([]ScoredMatch, 0, len(candidates))
	for i := range candidates {
		s := Score(target, &candidates[i])
		if s >= minSimilarity {
			matches = append(matches, ScoredMatch{Dish: candidates[i], Similarity: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches
}
