package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recoai/backend/internal/domain"
)

// HistoryRepository implements domain.HistoryRepository on the recommendations collection
type HistoryRepository struct {
	db DatabaseProvider
}

// NewHistoryRepository creates a history repository
func NewHistoryRepository(db DatabaseProvider) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a record; ID and CreatedAt are filled in on success
func (r *HistoryRepository) Create(ctx context.Context, record *domain.RecommendationRecord) error {
	user, err := parseObjectID(record.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", record.UserID, err)
	}

	coll, err := collection(r.db, recommendationsCollection)
	if err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	doc := toRecordDocument(record, user)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

// FindByUser returns the user's most recent records, newest first
func (r *HistoryRepository) FindByUser(ctx context.Context, userID string, limit int) ([]domain.RecommendationRecord, error) {
	user, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	coll, err := collection(r.db, recommendationsCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.D{{Key: "user", Value: user}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}

	var docs []recommendationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	records := make([]domain.RecommendationRecord, 0, len(docs))
	for i := range docs {
		records = append(records, toDomainRecord(&docs[i]))
	}
	return records, nil
}

// FindByID returns one record owned by userID. Malformed ids yield
// ErrInvalidRequest, missing or foreign records ErrNotFound.
func (r *HistoryRepository) FindByID(ctx context.Context, id, userID string) (*domain.RecommendationRecord, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	user, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	coll, err := collection(r.db, recommendationsCollection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc recommendationDocument
	err = coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "user", Value: user}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find recommendation: %w", err)
	}

	rec := toDomainRecord(&doc)
	return &rec, nil
}
