package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// UpsertReservation records a forward claim keyed by (date, type). A second
// reservation for the same key replaces the first; claims never stack.
func (r *MongoDBRepository) UpsertReservation(ctx context.Context, res models.StockReservation) error {
	filter := bson.M{
		"reservation_date": res.Date,
		"reservation_type": res.Type,
	}
	update := bson.M{
		"$set": bson.M{
			"reserved_amount": res.Amount,
			"updated_at":      time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"reservation_date": res.Date,
			"reservation_type": res.Type,
		},
	}

	_, err := r.coll(collReservations).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert reservation %s/%s: %w", res.Date, res.Type, err)
	}
	return nil
}

// GetReservation loads the claim for a date and type.
func (r *MongoDBRepository) GetReservation(ctx context.Context, date string, rtype models.ReservationType) (*models.StockReservation, error) {
	var res models.StockReservation
	err := r.coll(collReservations).FindOne(ctx, bson.M{
		"reservation_date": date,
		"reservation_type": rtype,
	}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load reservation %s/%s: %w", date, rtype, err)
	}
	return &res, nil
}
