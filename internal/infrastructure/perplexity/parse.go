package perplexity

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// MaxNames is the most product names kept from one completion
const MaxNames = 6

var (
	codeFenceRegex   = regexp.MustCompile("(?i)```json|```")
	quotedValueRegex = regexp.MustCompile(`"([^"]+)"`)
)

// ParseProductNames extracts product names from a completion that was asked
// for a JSON array of strings.
//
// Code fences are stripped first. If what remains is valid JSON, only an
// array is accepted and its string elements are used. Otherwise every
// double-quoted substring is taken, which recovers names from prose-wrapped
// arrays. The result is deduplicated in first-seen order and capped at MaxNames.
func ParseProductNames(raw string) []string {
	cleaned := strings.TrimSpace(codeFenceRegex.ReplaceAllString(raw, ""))

	var candidates []string

	var parsed interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		if arr, ok := parsed.([]interface{}); ok {
			for _, v := range arr {
				if s, ok := v.(string); ok {
					candidates = append(candidates, s)
				}
			}
		}
	} else {
		for _, m := range quotedValueRegex.FindAllStringSubmatch(cleaned, -1) {
			candidates = append(candidates, m[1])
		}
	}

	return dedupe(candidates, MaxNames)
}

// dedupe keeps the first occurrence of each non-blank name, up to limit entries
func dedupe(names []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]bool, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}
