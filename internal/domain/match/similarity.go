// Package match implements the dish matching and ranking engine:
// Jaccard-based similarity scoring, threshold filtering, and
// proximity annotation of restaurants.
package match

import (
	"math"
	"regexp"
	"strings"

	"github.com/dishscout/dishscout/internal/domain/dish"
)

// Sub-score weights. Weights of sub-scores whose data is missing on
// either side are excluded from the denominator entirely, so absent
// evidence never penalizes a candidate.
const (
	nameWeight        = 40.0
	ingredientWeight  = 35.0
	descriptionWeight = 25.0

	minTokenLen = 3
)

var tokenSplit = regexp.MustCompile(`\W+`)

// Score computes a 0-100 similarity between a target and a candidate
// descriptor. It blends name, ingredient, and description Jaccard
// sub-scores; ingredient and description sub-scores participate only
// when both sides carry the data.
func Score(target, candidate *dish.Descriptor) int {
	type weighted struct {
		score  float64
		weight float64
	}

	parts := []weighted{
		{score: jaccard(tokenize(target.Name()), tokenize(candidate.Name())), weight: nameWeight},
	}

	if len(target.Ingredients()) > 0 && len(candidate.Ingredients()) > 0 {
		parts = append(parts, weighted{
			score:  jaccard(toSet(target.Ingredients()), toSet(candidate.Ingredients())),
			weight: ingredientWeight,
		})
	}

	if target.Description() != "" && candidate.Description() != "" {
		parts = append(parts, weighted{
			score:  jaccard(tokenize(target.Description()), tokenize(candidate.Description())),
			weight: descriptionWeight,
		})
	}

	var sum, totalWeight float64
	for _, p := range parts {
		sum += p.score * p.weight
		totalWeight += p.weight
	}
	if totalWeight == 0 {
		return 0
	}

	return int(math.Round(100 * sum / totalWeight))
}

// tokenize splits text on non-word runes, lowercases, and drops short tokens.
func tokenize(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenSplit.Split(strings.ToLower(text), -1) {
		if len(tok) >= minTokenLen {
			set[tok] = struct{}{}
		}
	}
	return set
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// jaccard returns |intersection| / |union| in [0,1]. Either side empty yields 0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection

	return float64(intersection) / float64(union)
}
