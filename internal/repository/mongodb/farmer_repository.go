package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// FindFarmerByCode resolves a supplier through the short collection-point code.
func (r *MongoDBRepository) FindFarmerByCode(ctx context.Context, code string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.coll(collFarmers).FindOne(ctx, bson.M{"code": code}).Decode(&farmer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find farmer by code %s: %w", code, err)
	}
	return &farmer, nil
}

// UpdateFarmerStatus transitions a supplier's account status.
func (r *MongoDBRepository) UpdateFarmerStatus(ctx context.Context, farmerID string, status models.FarmerStatus) error {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.coll(collFarmers).UpdateOne(ctx, bson.M{"_id": farmerID}, update)
	if err != nil {
		return fmt.Errorf("update farmer %s status: %w", farmerID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
