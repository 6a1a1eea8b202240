package extract

import (
	"fmt"
	"strings"
)

// Ranker chooses a single value out of the candidates a Rule produced.
// Candidates are in document order. ok is false when nothing was chosen.
type Ranker interface {
	Pick(candidates []string) (value string, ok bool)
}

// RankerFunc adapts a plain function to the Ranker interface.
type RankerFunc func(candidates []string) (string, bool)

// Pick calls f(candidates).
func (f RankerFunc) Pick(candidates []string) (string, bool) {
	return f(candidates)
}

// First picks the earliest candidate in the transcript.
var First Ranker = RankerFunc(func(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
})

// MostFrequent picks the candidate that occurs most often. Ties go to the
// candidate that appeared first.
var MostFrequent Ranker = RankerFunc(func(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		counts[c]++
	}

	best := candidates[0]
	for _, c := range candidates {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
})

// Ranking strategy names accepted by ParseRanker.
const (
	RankingFirst        = "first"
	RankingMostFrequent = "most-frequent"
)

// ParseRanker resolves a ranking strategy by name. An empty name selects First.
func ParseRanker(name string) (Ranker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RankingFirst:
		return First, nil
	case RankingMostFrequent:
		return MostFrequent, nil
	default:
		return nil, fmt.Errorf("unknown ID ranking strategy %q (expected %q or %q)", name, RankingFirst, RankingMostFrequent)
	}
}
