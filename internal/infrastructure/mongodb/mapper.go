package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/recoai/backend/internal/domain"
)

func toDomainProduct(doc *productDocument) domain.Product {
	return domain.Product{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Price:       doc.Price,
		Category:    doc.Category,
		Image:       doc.Image,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func toCatalogItem(doc *productDocument) domain.CatalogItem {
	return domain.CatalogItem{
		ID:       doc.ID.Hex(),
		Name:     doc.Name,
		Price:    doc.Price,
		Category: doc.Category,
	}
}

func toDomainUser(doc *userDocument) *domain.User {
	return &domain.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}
}

func toDomainRecord(doc *recommendationDocument) domain.RecommendationRecord {
	rec := domain.RecommendationRecord{
		ID:          doc.ID.Hex(),
		UserID:      doc.User.Hex(),
		Query:       doc.Query,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
	}
	for _, r := range doc.Results {
		rec.Results = append(rec.Results, domain.ResultEntry{
			Name:        r.Name,
			Description: r.Description,
			Price:       decodePrice(r.Price),
			Category:    r.Category,
		})
	}
	for _, l := range doc.Recommendations {
		rec.Recommendations = append(rec.Recommendations, domain.LegacyRecommendation{Explanation: l.Explanation})
	}
	return rec
}

func toRecordDocument(rec *domain.RecommendationRecord, user primitive.ObjectID) recommendationDocument {
	doc := recommendationDocument{
		User:        user,
		Query:       rec.Query,
		Results:     make([]resultDocument, 0, len(rec.Results)),
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.CreatedAt,
	}
	for _, r := range rec.Results {
		doc.Results = append(doc.Results, resultDocument{
			Name:        r.Name,
			Description: r.Description,
			Price:       encodePrice(r.Price),
			Category:    r.Category,
		})
	}
	return doc
}

// encodePrice stores numeric prices as BSON doubles and labels as strings
func encodePrice(p *domain.Price) interface{} {
	if p == nil {
		return nil
	}
	if p.Label != "" {
		return p.Label
	}
	if p.Amount != nil {
		return *p.Amount
	}
	return nil
}

func decodePrice(v interface{}) *domain.Price {
	switch t := v.(type) {
	case float64:
		return &domain.Price{Amount: &t}
	case int32:
		f := float64(t)
		return &domain.Price{Amount: &f}
	case int64:
		f := float64(t)
		return &domain.Price{Amount: &f}
	case string:
		return &domain.Price{Label: t}
	default:
		return nil
	}
}
