// Package docstore manages the MongoDB client lifecycle.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds MongoDB connection settings.
type Config struct {
	URL            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// DefaultConfig returns settings for a local MongoDB.
func DefaultConfig() Config {
	return Config{
		URL:            "mongodb://localhost:27017",
		Database:       "taskboard",
		Collection:     "tasks",
		ConnectTimeout: 10 * time.Second,
	}
}

// Connection owns a live MongoDB client. Close must be called before exit.
type Connection struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	if cfg.URL == "" {
		return nil, errors.New("mongodb URL is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New("mongodb database and collection are required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Connection{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Collection returns the tasks collection.
func (c *Connection) Collection() *mongo.Collection {
	return c.collection
}

// Ping verifies the connection is still alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client and releases its pool.
func (c *Connection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
