package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

const (
	collDailyStock    = "daily_stock"
	collStockArchive  = "stock_archive"
	collReservations  = "stock_reservations"
	collContributions = "contributions"
	collPayments      = "payments"
	collFarmers       = "farmers"
	collSubscriptions = "subscriptions"
	collMilkPrices    = "milk_prices"
)

// MongoDBRepository is the persistent store for the ledger core. All ledger
// mutations are expressed as single atomic update documents so concurrent
// handlers never lose increments.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// EnsureIndexes creates the unique keys the idempotency guarantees rely on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collDailyStock: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collStockArchive: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collReservations: {
			{Keys: bson.D{{Key: "reservation_date", Value: 1}, {Key: "reservation_type", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collContributions: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collFarmers: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collMilkPrices: {
			{Keys: bson.D{{Key: "milk_type", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collSubscriptions: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}

	for name, defs := range indexes {
		if _, err := r.coll(name).Indexes().CreateMany(ctx, defs); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
