package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// InsertContribution appends an immutable collection fact.
func (r *MongoDBRepository) InsertContribution(ctx context.Context, c models.MilkContribution) error {
	if _, err := r.coll(collContributions).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert contribution %s: %w", c.ReceiptID, err)
	}
	return nil
}

// ListRecentContributions returns a farmer's contributions most recent first,
// the order the quality streak walk expects.
func (r *MongoDBRepository) ListRecentContributions(ctx context.Context, farmerID string, limit int64) ([]models.MilkContribution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.coll(collContributions).Find(ctx, bson.M{"farmer_id": farmerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contributions for %s: %w", farmerID, err)
	}
	defer cur.Close(ctx)

	var contributions []models.MilkContribution
	if err := cur.All(ctx, &contributions); err != nil {
		return nil, fmt.Errorf("decode contribution rows: %w", err)
	}
	return contributions, nil
}
