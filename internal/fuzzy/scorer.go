// Package fuzzy defines the relevance-scoring contract consumed by the
// browser and its default implementation.
package fuzzy

import (
	lith "github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"
)

// Match is a successful score: Weight >= 1, Indexes the ascending rune
// offsets of the matched characters within the label.
type Match struct {
	Weight  int
	Indexes []int
}

// Scorer reports how well a label matches a query. Implementations must be
// deterministic for a fixed (label, query) pair and case-insensitive.
type Scorer interface {
	Score(label, query string) (Match, bool)
}

// Ranker is the default Scorer: a cheap normalized case-folded subsequence
// gate followed by ranked scoring with matched positions.
type Ranker struct{}

// Score implements Scorer.
func (Ranker) Score(label, query string) (Match, bool) {
	if query == "" {
		return Match{Weight: 1}, true
	}
	if !lith.MatchNormalizedFold(query, label) {
		return Match{}, false
	}
	results := sahilm.Find(query, []string{label})
	if len(results) == 0 {
		// The gate accepted a normalized form the ranker cannot see
		// through; keep the item visible with a floor weight.
		return Match{Weight: 1}, true
	}
	best := results[0]
	weight := best.Score
	if weight < 1 {
		weight = 1
	}
	return Match{Weight: weight, Indexes: runeOffsets(label, best.MatchedIndexes)}, true
}

// runeOffsets converts byte offsets into ascending rune offsets.
func runeOffsets(label string, byteOffsets []int) []int {
	if len(byteOffsets) == 0 {
		return nil
	}
	byteToRune := make(map[int]int, len(label))
	runeIdx := 0
	for byteIdx := range label {
		byteToRune[byteIdx] = runeIdx
		runeIdx++
	}
	offsets := make([]int, 0, len(byteOffsets))
	last := -1
	for _, b := range byteOffsets {
		r, ok := byteToRune[b]
		if !ok || r == last {
			continue
		}
		offsets = append(offsets, r)
		last = r
	}
	return offsets
}
