// Package mongodb provides MongoDB connection utilities and collection names.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/bloodbridge/internal/pkg/connect"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollectionUsers     = "users"
	CollectionRequests  = "requests"
	CollectionInventory = "inventory"
	CollectionDonors    = "donors"
	CollectionEvents    = "events"
)

// Config contains MongoDB connection configuration.
type Config struct {
	URI             string
	Database        string
	MaxOpenConns    int
	ConnectTimeout  time.Duration
	ConnectAttempts int
}

// Connect connects and pings MongoDB with retry logic and returns the
// configured database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, error) {
	// Nested free-form documents decode as maps, not ordered D slices.
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	var client *mongo.Client
	err := connect.Retry(ctx, "mongo", cfg.ConnectAttempts, func(ctx context.Context) error {
		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(ctx)
			return fmt.Errorf("ping: %w", err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique username indexes on users and donors.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{CollectionUsers, CollectionDonors} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create %s username index: %w", name, err)
		}
	}
	return nil
}

// WithoutID is the projection that strips the internal _id field.
func WithoutID() bson.M {
	return bson.M{"_id": 0}
}
