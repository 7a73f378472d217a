package imagesearch

import (
	"strings"
)

// categoryKeywords maps name fragments to a search category. Order matters:
// the first matching rule wins, so "Galaxy Watch Pro" is a smartwatch.
var categoryKeywords = []struct {
	category  string
	fragments []string
}{
	{"earbuds", []string{"buds", "ear"}},
	{"smartwatch", []string{"watch"}},
	{"laptop", []string{"laptop"}},
	{"tablet", []string{"tablet"}},
	{"television", []string{"tv"}},
	{"camera", []string{"camera"}},
	{"smartphone", []string{"phone", "mobile", "pro", "plus"}},
}

const defaultCategory = "electronics"

// DetectCategory infers a coarse product category from a product name by
// substring match on the lowercased name.
func DetectCategory(productName string) string {
	lower := strings.ToLower(productName)
	for _, rule := range categoryKeywords {
		for _, f := range rule.fragments {
			if strings.Contains(lower, f) {
				return rule.category
			}
		}
	}
	return defaultCategory
}

// BuildQueries returns image search queries from most to least specific:
// "<brand> <category>", "<name> <category>", "<category>". The brand is the
// first word of the name.
func BuildQueries(productName, category string) []string {
	name := strings.TrimSpace(productName)
	brand := name
	if idx := strings.Index(name, " "); idx > 0 {
		brand = name[:idx]
	}

	return []string{
		strings.TrimSpace(brand + " " + category),
		strings.TrimSpace(name + " " + category),
		category,
	}
}
