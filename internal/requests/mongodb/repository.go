// Package mongodb provides MongoDB implementation of the requests repository.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/mongodb"
	"github.com/bissquit/bloodbridge/internal/requests"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BloodType string             `bson:"bloodType"`
	Quantity  int                `bson:"quantity"`
	Status    string             `bson:"status"`
	Hospital  string             `bson:"hospital,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Repository implements the requests.Repository interface using MongoDB.
type Repository struct {
	requests *mongo.Collection
}

// NewRepository creates a new MongoDB repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{requests: db.Collection(mongodb.CollectionRequests)}
}

// CreateRequest inserts a blood request document.
func (r *Repository) CreateRequest(ctx context.Context, request *domain.BloodRequest) error {
	doc := requestDocument{
		BloodType: string(request.BloodType),
		Quantity:  request.Quantity,
		Status:    string(request.Status),
		Hospital:  request.Hospital,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	res, err := r.requests.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		request.ID = oid.Hex()
	}
	request.CreatedAt = doc.CreatedAt
	return nil
}

// ListRequests retrieves requests in insertion order.
func (r *Repository) ListRequests(ctx context.Context, filter requests.RequestFilter) ([]domain.BloodRequest, error) {
	query := bson.M{}
	if filter.Hospital != nil {
		query["hospital"] = *filter.Hospital
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}

	cursor, err := r.requests.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	var docs []requestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	result := make([]domain.BloodRequest, 0, len(docs))
	for _, doc := range docs {
		result = append(result, domain.BloodRequest{
			ID:        doc.ID.Hex(),
			BloodType: domain.BloodType(doc.BloodType),
			Quantity:  doc.Quantity,
			Status:    domain.RequestStatus(doc.Status),
			Hospital:  doc.Hospital,
			CreatedAt: doc.CreatedAt,
		})
	}
	return result, nil
}
