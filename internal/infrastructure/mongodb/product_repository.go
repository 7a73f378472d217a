package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recoai/backend/internal/domain"
)

// ProductRepository implements domain.ProductRepository on the products collection
type ProductRepository struct {
	db DatabaseProvider
}

// NewProductRepository creates a product repository
func NewProductRepository(db DatabaseProvider) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListCatalog returns the name/price/category projection of every product
func (r *ProductRepository) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	docs, err := r.find(ctx, options.Find().SetProjection(bson.D{
		{Key: "name", Value: 1},
		{Key: "price", Value: 1},
		{Key: "category", Value: 1},
	}))
	if err != nil {
		return nil, err
	}

	items := make([]domain.CatalogItem, 0, len(docs))
	for i := range docs {
		items = append(items, toCatalogItem(&docs[i]))
	}
	return items, nil
}

// List returns every product
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.find(ctx, options.Find())
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, toDomainProduct(&docs[i]))
	}
	return products, nil
}

func (r *ProductRepository) find(ctx context.Context, opts *options.FindOptions) ([]productDocument, error) {
	coll, err := collection(r.db, productsCollection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return docs, nil
}

// Create inserts a product and fills in its ID and timestamps
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	coll, err := collection(r.db, productsCollection)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := productDocument{
		Name:        product.Name,
		Price:       product.Price,
		Category:    product.Category,
		Image:       product.Image,
		Description: product.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}
