package usecase

import (
	"testing"
	"time"

	"github.com/recoai/backend/internal/domain"
)

func TestNormalizeRecord(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		record    domain.RecommendationRecord
		wantQuery string
		want      []domain.ResultEntry
	}{
		{
			name: "structured results win",
			record: domain.RecommendationRecord{
				Query:           "headphones",
				Results:         []domain.ResultEntry{{Name: "Sony WH-1000XM5"}, {Name: "Bose QC Ultra"}},
				Recommendations: []domain.LegacyRecommendation{{Explanation: "ignored"}},
				Description:     "ignored",
			},
			wantQuery: "headphones",
			want:      []domain.ResultEntry{{Name: "Sony WH-1000XM5"}, {Name: "Bose QC Ultra"}},
		},
		{
			name: "legacy explanation",
			record: domain.RecommendationRecord{
				Query:           "laptops",
				Recommendations: []domain.LegacyRecommendation{{Explanation: "Get a MacBook Air"}},
				Description:     "ignored",
			},
			wantQuery: "laptops",
			want:      []domain.ResultEntry{{Name: "AI Recommendation", Description: "Get a MacBook Air"}},
		},
		{
			name: "empty legacy explanation falls through to description",
			record: domain.RecommendationRecord{
				Query:           "tablets",
				Recommendations: []domain.LegacyRecommendation{{}},
				Description:     "iPad Air is the pick",
			},
			wantQuery: "tablets",
			want:      []domain.ResultEntry{{Name: "tablets", Description: "iPad Air is the pick"}},
		},
		{
			name:      "description only is named after the query",
			record:    domain.RecommendationRecord{Query: "cameras", Description: "Sony a7 IV"},
			wantQuery: "cameras",
			want:      []domain.ResultEntry{{Name: "cameras", Description: "Sony a7 IV"}},
		},
		{
			name:      "unknown shape gets the placeholder",
			record:    domain.RecommendationRecord{},
			wantQuery: "Untitled Query",
			want: []domain.ResultEntry{{
				Name:        "AI Recommendation",
				Description: "No structured data available. This was generated before structured saving.",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.record
			rec.ID = "r1"
			rec.CreatedAt = created

			got := NormalizeRecord(&rec)

			if got.ID != "r1" || !got.CreatedAt.Equal(created) {
				t.Errorf("ID/CreatedAt = %q/%v", got.ID, got.CreatedAt)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if len(got.Results) != len(tt.want) {
				t.Fatalf("Results = %+v, want %+v", got.Results, tt.want)
			}
			for i := range tt.want {
				if got.Results[i].Name != tt.want[i].Name || got.Results[i].Description != tt.want[i].Description {
					t.Errorf("Results[%d] = %+v, want %+v", i, got.Results[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeRecord_DescriptionUsesDefaultQuery(t *testing.T) {
	got := NormalizeRecord(&domain.RecommendationRecord{Description: "text"})
	if len(got.Results) != 1 || got.Results[0].Name != "Untitled Query" {
		t.Errorf("Results = %+v", got.Results)
	}
}
