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

// UpsertCredit adds qty liters to a day's total and available stock, creating
// the row with zeroed defaults when it does not exist yet. The whole mutation
// is a single atomic update so concurrent credits never lose increments.
func (r *MongoDBRepository) UpsertCredit(ctx context.Context, date string, qty float64) error {
	update := bson.M{
		"$inc": bson.M{
			"total_stock":     qty,
			"available_stock": qty,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
		"$setOnInsert": bson.M{
			"date":                date,
			"sold_stock":          float64(0),
			"subscription_demand": float64(0),
			"leftover_milk":       float64(0),
		},
	}

	_, err := r.coll(collDailyStock).UpdateOne(ctx,
		bson.M{"date": date}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("credit daily stock %s: %w", date, err)
	}
	return nil
}

// DebitSold moves qty liters from available to sold. Without override the
// update filter requires available_stock >= qty, so an underfunded debit
// matches nothing and is reported as applied=false with no mutation. An
// override debit upserts, allowing emergency admin debits to drive a day
// negative or create its row.
func (r *MongoDBRepository) DebitSold(ctx context.Context, date string, qty float64, override bool) (bool, error) {
	filter := bson.M{"date": date}
	opts := options.Update()
	if override {
		opts.SetUpsert(true)
	} else {
		filter["available_stock"] = bson.M{"$gte": qty}
	}

	update := bson.M{
		"$inc": bson.M{
			"sold_stock":      qty,
			"available_stock": -qty,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
		"$setOnInsert": bson.M{
			"date":                date,
			"total_stock":         float64(0),
			"subscription_demand": float64(0),
			"leftover_milk":       float64(0),
		},
	}

	res, err := r.coll(collDailyStock).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("debit daily stock %s: %w", date, err)
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}

// GetDailyStock loads the live ledger row for a date.
func (r *MongoDBRepository) GetDailyStock(ctx context.Context, date string) (*models.DailyStockRecord, error) {
	var record models.DailyStockRecord
	err := r.coll(collDailyStock).FindOne(ctx, bson.M{"date": date}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load daily stock %s: %w", date, err)
	}
	return &record, nil
}

// SetSubscriptionDemand stamps the forecast figure on a day's row, creating it
// when absent.
func (r *MongoDBRepository) SetSubscriptionDemand(ctx context.Context, date string, liters float64) error {
	update := bson.M{
		"$set": bson.M{
			"subscription_demand": liters,
			"updated_at":          time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"date":            date,
			"total_stock":     float64(0),
			"available_stock": float64(0),
			"sold_stock":      float64(0),
			"leftover_milk":   float64(0),
		},
	}

	_, err := r.coll(collDailyStock).UpdateOne(ctx,
		bson.M{"date": date}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set subscription demand %s: %w", date, err)
	}
	return nil
}

// SeedNextDay carries leftover liters into a day's opening balance and folds
// the reserved demand in, as one conditional atomic update. The row records
// which source day seeded it (seeded_from); the filter excludes rows already
// seeded from that day, so a retried rollover applies the increments exactly
// once. A duplicate key error from the upsert path means another invocation
// seeded the row first; that is reported as applied=false, not a failure.
func (r *MongoDBRepository) SeedNextDay(ctx context.Context, sourceDate, date string, leftover, demand float64) (bool, error) {
	filter := bson.M{
		"date":        date,
		"seeded_from": bson.M{"$ne": sourceDate},
	}
	update := bson.M{
		"$inc": bson.M{
			"total_stock":         leftover,
			"available_stock":     leftover,
			"subscription_demand": demand,
		},
		"$set": bson.M{
			"leftover_milk": leftover,
			"seeded_from":   sourceDate,
			"updated_at":    time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"date":       date,
			"sold_stock": float64(0),
		},
	}

	res, err := r.coll(collDailyStock).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed next day %s: %w", date, err)
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}

// InsertArchive copies a day-close snapshot into the immutable archive. The
// unique date index makes the insert the commit marker of the rollover; a
// duplicate insert reports archived=false.
func (r *MongoDBRepository) InsertArchive(ctx context.Context, record models.DailyStockArchive) (bool, error) {
	_, err := r.coll(collStockArchive).InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert stock archive %s: %w", record.Date, err)
	}
	return true, nil
}

// HasArchive reports whether a date was already closed out.
func (r *MongoDBRepository) HasArchive(ctx context.Context, date string) (bool, error) {
	count, err := r.coll(collStockArchive).CountDocuments(ctx, bson.M{"date": date}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check stock archive %s: %w", date, err)
	}
	return count > 0, nil
}

// ListArchive returns archived days in the inclusive [from, to] date range,
// oldest first. Empty bounds are open-ended.
func (r *MongoDBRepository) ListArchive(ctx context.Context, from, to string) ([]models.DailyStockArchive, error) {
	filter := bson.M{}
	dateBounds := bson.M{}
	if from != "" {
		dateBounds["$gte"] = from
	}
	if to != "" {
		dateBounds["$lte"] = to
	}
	if len(dateBounds) > 0 {
		filter["date"] = dateBounds
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.coll(collStockArchive).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list stock archive: %w", err)
	}
	defer cur.Close(ctx)

	var records []models.DailyStockArchive
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode stock archive rows: %w", err)
	}
	return records, nil
}
