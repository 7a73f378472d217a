package perplexity

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/recoai/backend/internal/logging"
	"github.com/recoai/backend/internal/metrics"
)

// maxGroundingNames bounds how many catalog names are sent as context
const maxGroundingNames = 30

// ExtractNames asks the web-connected model for up to MaxNames real product
// names for query. knownNames are offered as optional grounding only.
// Any failure is logged and yields an empty slice.
func (c *Client) ExtractNames(ctx context.Context, query string, knownNames []string) []string {
	raw, err := c.complete(ctx, chatRequest{
		Model: c.extractionModel,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a concise, web-connected product recommender."},
			{Role: "user", Content: buildExtractionPrompt(query, knownNames)},
		},
		Temperature: 0.3,
		MaxTokens:   400,
	})
	if err != nil {
		metrics.ExternalCallFailures.WithLabelValues("perplexity").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("AI name extraction failed")
		return []string{}
	}

	names := ParseProductNames(raw)
	logging.Ctx(ctx).Debug().Strs("names", names).Msg("AI product names extracted")
	return names
}

func buildExtractionPrompt(query string, knownNames []string) string {
	if len(knownNames) > maxGroundingNames {
		knownNames = knownNames[:maxGroundingNames]
	}
	if knownNames == nil {
		knownNames = []string{}
	}
	grounding, _ := json.Marshal(knownNames)

	return fmt.Sprintf(`You are an AI product recommendation engine with access to the web.
Given the user's request: %q
1. Search the web for real products relevant to the request.
2. Cross-check with this local list if useful: %s
3. Return a pure JSON array of up to %d real product names, with no commentary and no markdown.
Example:
["Sony WH-1000XM5", "Samsung Galaxy Buds2 Pro", "JBL Tune 760NC"]`, query, grounding, MaxNames)
}
