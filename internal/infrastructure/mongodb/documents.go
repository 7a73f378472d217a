package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recoai/backend/internal/domain"
)

const (
	productsCollection        = "products"
	recommendationsCollection = "recommendations"
	usersCollection           = "users"
)

// DatabaseProvider hands out the database handle once connected.
// *Connector implements it.
type DatabaseProvider interface {
	Database() (*mongo.Database, error)
}

func collection(p DatabaseProvider, name string) (*mongo.Collection, error) {
	db, err := p.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       *float64           `bson:"price,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Image       string             `bson:"image,omitempty"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty"`
}

type resultDocument struct {
	Name        string      `bson:"name"`
	Description string      `bson:"description,omitempty"`
	Price       interface{} `bson:"price,omitempty"`
	Category    string      `bson:"category,omitempty"`
}

type legacyRecommendationDocument struct {
	Explanation string `bson:"explanation,omitempty"`
}

// recommendationDocument covers every stored vintage: current records use
// Results, older ones Recommendations or Description.
type recommendationDocument struct {
	ID              primitive.ObjectID             `bson:"_id,omitempty"`
	User            primitive.ObjectID             `bson:"user"`
	Query           string                         `bson:"query"`
	Results         []resultDocument               `bson:"results"`
	Recommendations []legacyRecommendationDocument `bson:"recommendations,omitempty"`
	Description     string                         `bson:"description,omitempty"`
	CreatedAt       time.Time                      `bson:"createdAt"`
	UpdatedAt       time.Time                      `bson:"updatedAt"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// parseObjectID converts a hex id, reporting malformed ids as ErrInvalidRequest
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidRequest
	}
	return oid, nil
}

// withTimeout bounds a single store call
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 10*time.Second)
}
