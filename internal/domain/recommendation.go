package domain

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Mode selects the recommendation strategy
type Mode string

const (
	// ModeHybrid merges catalog matches with AI-suggested product names
	ModeHybrid Mode = "hybrid"
	// ModeAIOnly returns the AI reasoning text without touching the catalog
	ModeAIOnly Mode = "ai-only"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeHybrid || m == ModeAIOnly
}

// Origin tells where a recommended entry came from
type Origin string

const (
	OriginCatalog     Origin = "catalog"
	OriginAISuggested Origin = "ai-suggested"
)

// Price is either a numeric catalog price or a display label such as "—".
// It encodes as a JSON number, a JSON string, or null.
type Price struct {
	Amount *float64
	Label  string
}

// NumericPrice wraps a catalog price; returns nil when amount is nil
func NumericPrice(amount *float64) *Price {
	if amount == nil {
		return nil
	}
	v := *amount
	return &Price{Amount: &v}
}

// LabelPrice wraps a display-only price label
func LabelPrice(label string) *Price {
	return &Price{Label: label}
}

// String renders the price for logs and persistence
func (p Price) String() string {
	if p.Label != "" {
		return p.Label
	}
	if p.Amount != nil {
		return strconv.FormatFloat(*p.Amount, 'f', -1, 64)
	}
	return ""
}

// MarshalJSON implements json.Marshaler
func (p Price) MarshalJSON() ([]byte, error) {
	if p.Label != "" {
		return json.Marshal(p.Label)
	}
	if p.Amount != nil {
		return json.Marshal(*p.Amount)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	if string(data) == "null" {
		return nil
	}
	var amount float64
	if err := json.Unmarshal(data, &amount); err == nil {
		p.Amount = &amount
		return nil
	}
	return json.Unmarshal(data, &p.Label)
}

// Recommendation is one entry of a recommendation response.
// Hybrid entries fill the product fields; ai-only entries only carry Explanation.
type Recommendation struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Price       *Price `json:"price,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Origin      Origin `json:"origin,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// RecommendationResponse is returned by the recommendation endpoint and cached as-is
type RecommendationResponse struct {
	Type            Mode             `json:"type"`
	Recommendations []Recommendation `json:"recommendations"`
}

// RecommendRequest is the payload for generating recommendations
type RecommendRequest struct {
	Query string `json:"query"`
	Mode  Mode   `json:"mode,omitempty"`
}

// ResultEntry is one stored result line of a history record
type ResultEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       *Price `json:"price,omitempty"`
	Category    string `json:"category,omitempty"`
}

// LegacyRecommendation is the pre-structured stored shape: a single free-text explanation
type LegacyRecommendation struct {
	Explanation string `json:"explanation,omitempty"`
}

// RecommendationRecord is a stored history entry. Older records may carry
// Recommendations or Description instead of Results.
type RecommendationRecord struct {
	ID              string                 `json:"_id"`
	UserID          string                 `json:"user"`
	Query           string                 `json:"query"`
	Results         []ResultEntry          `json:"results"`
	Recommendations []LegacyRecommendation `json:"recommendations,omitempty"`
	Description     string                 `json:"description,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// NormalizedRecord is the uniform display shape of any stored record
type NormalizedRecord struct {
	ID        string        `json:"_id"`
	Query     string        `json:"query"`
	Results   []ResultEntry `json:"results"`
	CreatedAt time.Time     `json:"createdAt"`
}
