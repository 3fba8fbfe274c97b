package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// ListActiveSubscriptions returns the subscriptions that feed the demand
// forecast. Cancelled subscriptions are excluded by the filter.
func (r *MongoDBRepository) ListActiveSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	cur, err := r.coll(collSubscriptions).Find(ctx, bson.M{"status": models.SubscriptionActive})
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	defer cur.Close(ctx)

	var subs []models.Subscription
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("decode subscription rows: %w", err)
	}
	return subs, nil
}
