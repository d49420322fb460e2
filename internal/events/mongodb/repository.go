// Package mongodb provides MongoDB implementation of the events repository.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/events"
	"github.com/bissquit/bloodbridge/internal/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Hospital           string             `bson:"hospital"`
	EventName          string             `bson:"eventName"`
	EventDate          string             `bson:"eventDate"`
	Location           string             `bson:"location"`
	RequiredBloodTypes []string           `bson:"requiredBloodTypes"`
	CreatedAt          time.Time          `bson:"createdAt"`
}

// Repository implements events.Repository using MongoDB.
type Repository struct {
	events *mongo.Collection
}

// NewRepository creates a new MongoDB repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{events: db.Collection(mongodb.CollectionEvents)}
}

// CreateEvent inserts a donation event document.
func (r *Repository) CreateEvent(ctx context.Context, event *domain.DonationEvent) error {
	doc := eventDocument{
		Hospital:           event.Hospital,
		EventName:          event.EventName,
		EventDate:          event.EventDate,
		Location:           event.Location,
		RequiredBloodTypes: event.RequiredBloodTypes,
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
	}
	// A nil slice would be stored as null.
	if doc.RequiredBloodTypes == nil {
		doc.RequiredBloodTypes = []string{}
	}

	res, err := r.events.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	event.CreatedAt = doc.CreatedAt
	return nil
}

// ListEvents retrieves events in insertion order.
func (r *Repository) ListEvents(ctx context.Context, filter events.EventFilter) ([]domain.DonationEvent, error) {
	query := bson.M{}
	if filter.Hospital != nil {
		query["hospital"] = *filter.Hospital
	}

	cursor, err := r.events.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	result := make([]domain.DonationEvent, 0, len(docs))
	for _, doc := range docs {
		required := doc.RequiredBloodTypes
		if required == nil {
			required = []string{}
		}
		result = append(result, domain.DonationEvent{
			ID:                 doc.ID.Hex(),
			Hospital:           doc.Hospital,
			EventName:          doc.EventName,
			EventDate:          doc.EventDate,
			Location:           doc.Location,
			RequiredBloodTypes: required,
			CreatedAt:          doc.CreatedAt,
		})
	}
	return result, nil
}
