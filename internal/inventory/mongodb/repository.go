// Package mongodb provides MongoDB implementation of the inventory repository.
package mongodb

import (
	"context"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository implements the inventory.Repository interface using MongoDB.
type Repository struct {
	inventory *mongo.Collection
}

// NewRepository creates a new MongoDB repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{inventory: db.Collection(mongodb.CollectionInventory)}
}

// ListItems retrieves all inventory documents with _id projected away.
func (r *Repository) ListItems(ctx context.Context) ([]domain.Document, error) {
	opts := options.Find().
		SetProjection(mongodb.WithoutID()).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.inventory.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	result := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		result = append(result, domain.Document(doc))
	}
	return result, nil
}

// CreateItem inserts an inventory document.
func (r *Repository) CreateItem(ctx context.Context, item domain.Document) error {
	if _, err := r.inventory.InsertOne(ctx, bson.M(item)); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}
