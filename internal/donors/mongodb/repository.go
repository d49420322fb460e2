// Package mongodb provides MongoDB implementation of the donors repository.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/donors"
	"github.com/bissquit/bloodbridge/internal/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository implements the donors.Repository interface using MongoDB.
// Each donor is one flat document holding username and attributes.
type Repository struct {
	donors *mongo.Collection
}

// NewRepository creates a new MongoDB repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{donors: db.Collection(mongodb.CollectionDonors)}
}

// GetDonor retrieves a donor by username.
func (r *Repository) GetDonor(ctx context.Context, username string) (*domain.Donor, error) {
	var doc bson.M
	err := r.donors.FindOne(ctx,
		bson.M{"username": username},
		options.FindOne().SetProjection(mongodb.WithoutID()),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, donors.ErrDonorNotFound
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}

	delete(doc, "username")
	return &domain.Donor{Username: username, Attributes: domain.Document(doc)}, nil
}

// UpsertDonor replaces the donor document, inserting it when absent.
func (r *Repository) UpsertDonor(ctx context.Context, donor *domain.Donor) error {
	doc := make(bson.M, len(donor.Attributes)+1)
	for k, v := range donor.Attributes.Clean() {
		doc[k] = v
	}
	doc["username"] = donor.Username

	_, err := r.donors.ReplaceOne(ctx,
		bson.M{"username": donor.Username},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert donor: %w", err)
	}
	return nil
}
