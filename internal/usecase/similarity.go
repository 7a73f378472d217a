package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex pattern for performance
var nonWordRegex = regexp.MustCompile(`\W+`)

// Tokenize lowercases a product name and splits it on runs of non-word
// characters, dropping empty tokens. Token order follows the input.
//
//	Tokenize("Sony WH-1000XM5") // ["sony", "wh", "1000xm5"]
func Tokenize(name string) []string {
	parts := nonWordRegex.Split(strings.ToLower(name), -1)

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Score is a Dice-style overlap: tokens of a found in the set of b, divided by
// the mean length of both slices. Duplicates in a count once each, b is
// deduplicated, so Score(a, b) and Score(b, a) can differ.
// Returns 0 when both inputs are empty.
func Score(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}

	common := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			common++
		}
	}

	return float64(common) / (float64(total) / 2)
}

// MaxScore returns the best Score of tokens against any candidate, 0 when
// there are no candidates.
func MaxScore(tokens []string, candidates [][]string) float64 {
	best := 0.0
	for _, c := range candidates {
		if s := Score(tokens, c); s > best {
			best = s
		}
	}
	return best
}
