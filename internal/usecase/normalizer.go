package usecase

import (
	"strings"

	"github.com/recoai/backend/internal/domain"
)

const (
	untitledQuery         = "Untitled Query"
	aiRecommendationName  = "AI Recommendation"
	unstructuredRecordMsg = "No structured data available. This was generated before structured saving."
)

// recordShape identifies which generation of stored record we are reading
type recordShape int

const (
	shapeUnknown recordShape = iota
	shapeStructured
	shapeLegacyExplanation
	shapeDescription
)

// classifyRecord picks the first shape that carries usable data, in priority order
func classifyRecord(rec *domain.RecommendationRecord) recordShape {
	switch {
	case len(rec.Results) > 0:
		return shapeStructured
	case len(rec.Recommendations) > 0 && rec.Recommendations[0].Explanation != "":
		return shapeLegacyExplanation
	case rec.Description != "":
		return shapeDescription
	default:
		return shapeUnknown
	}
}

// NormalizeRecord converts any stored record vintage into the display shape.
// Every output has at least one result entry and a non-empty query.
func NormalizeRecord(rec *domain.RecommendationRecord) domain.NormalizedRecord {
	query := rec.Query
	if strings.TrimSpace(query) == "" {
		query = untitledQuery
	}

	var results []domain.ResultEntry
	switch classifyRecord(rec) {
	case shapeStructured:
		results = rec.Results
	case shapeLegacyExplanation:
		results = []domain.ResultEntry{{Name: aiRecommendationName, Description: rec.Recommendations[0].Explanation}}
	case shapeDescription:
		results = []domain.ResultEntry{{Name: query, Description: rec.Description}}
	default:
		results = []domain.ResultEntry{{Name: aiRecommendationName, Description: unstructuredRecordMsg}}
	}

	return domain.NormalizedRecord{
		ID:        rec.ID,
		Query:     query,
		Results:   results,
		CreatedAt: rec.CreatedAt,
	}
}
