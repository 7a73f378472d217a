package domain

import "time"

// Product is a catalog document
type Product struct {
	ID          string    `json:"_id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Price       *float64  `json:"price,omitempty" bson:"price,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CatalogItem is the name/price/category projection of a Product used for matching.
// Price is nil when the stored document carries no numeric price.
type CatalogItem struct {
	ID       string   `json:"_id" bson:"_id"`
	Name     string   `json:"name" bson:"name"`
	Price    *float64 `json:"price" bson:"price"`
	Category string   `json:"category" bson:"category"`
}

// CreateProductRequest is the payload for adding a product to the catalog
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
}
