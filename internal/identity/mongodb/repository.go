// Package mongodb provides MongoDB implementation of the identity repository.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/identity"
	"github.com/bissquit/bloodbridge/internal/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Repository implements the identity.Repository interface using MongoDB.
type Repository struct {
	users *mongo.Collection
}

// NewRepository creates a new MongoDB repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(mongodb.CollectionUsers)}
}

// CreateUser inserts a user document.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	doc := userDocument{
		Username:  user.Username,
		Password:  user.Password,
		Role:      string(user.Role),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ErrUsernameExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	user.CreatedAt = doc.CreatedAt
	return nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &domain.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Password:  doc.Password,
		Role:      domain.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
	}, nil
}
