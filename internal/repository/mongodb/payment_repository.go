package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// paymentDoc is the persisted shape of a payment. Decimal amounts are stored
// as strings so no precision is lost in BSON.
type paymentDoc struct {
	ID         string     `bson:"_id"`
	FarmerID   string     `bson:"farmer_id"`
	ReceiptID  string     `bson:"receipt_id"`
	Amount     string     `bson:"amount"`
	Status     string     `bson:"status"`
	CreatedAt  time.Time  `bson:"created_at"`
	ReviewedAt *time.Time `bson:"reviewed_at,omitempty"`
}

func toPaymentDoc(p models.Payment) paymentDoc {
	return paymentDoc{
		ID:         p.ID,
		FarmerID:   p.FarmerID,
		ReceiptID:  p.ReceiptID,
		Amount:     p.Amount.String(),
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		ReviewedAt: p.ReviewedAt,
	}
}

func (d paymentDoc) toModel() (models.Payment, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return models.Payment{}, fmt.Errorf("parse payment %s amount %q: %w", d.ID, d.Amount, err)
	}
	return models.Payment{
		ID:         d.ID,
		FarmerID:   d.FarmerID,
		ReceiptID:  d.ReceiptID,
		Amount:     amount,
		Status:     models.PaymentStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		ReviewedAt: d.ReviewedAt,
	}, nil
}

// InsertPayment records a new pending obligation.
func (r *MongoDBRepository) InsertPayment(ctx context.Context, p models.Payment) error {
	if _, err := r.coll(collPayments).InsertOne(ctx, toPaymentDoc(p)); err != nil {
		return fmt.Errorf("insert payment %s: %w", p.ID, err)
	}
	return nil
}

// GetPayment loads a payment by id.
func (r *MongoDBRepository) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	var doc paymentDoc
	err := r.coll(collPayments).FindOne(ctx, bson.M{"_id": paymentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment %s: %w", paymentID, err)
	}

	payment, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ReviewPayment transitions a pending payment to approved or rejected. The
// filter requires the current status to still be pending, so a double review
// reports applied=false instead of flipping an already settled payment.
func (r *MongoDBRepository) ReviewPayment(ctx context.Context, paymentID string, status models.PaymentStatus) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{"_id": paymentID, "status": string(models.PaymentPending)}
	update := bson.M{"$set": bson.M{
		"status":      string(status),
		"reviewed_at": now,
	}}

	res, err := r.coll(collPayments).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("review payment %s: %w", paymentID, err)
	}
	return res.MatchedCount > 0, nil
}

// GetMilkPrice returns the current per-liter purchase price for a milk type.
func (r *MongoDBRepository) GetMilkPrice(ctx context.Context, milkType models.MilkType) (*models.MilkPrice, error) {
	var doc struct {
		MilkType      string    `bson:"milk_type"`
		PricePerLiter string    `bson:"price_per_liter"`
		UpdatedAt     time.Time `bson:"updated_at"`
	}

	err := r.coll(collMilkPrices).FindOne(ctx, bson.M{"milk_type": milkType}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load milk price %s: %w", milkType, err)
	}

	price, err := decimal.NewFromString(doc.PricePerLiter)
	if err != nil {
		return nil, fmt.Errorf("parse milk price %s: %w", milkType, err)
	}

	return &models.MilkPrice{
		MilkType:      models.MilkType(doc.MilkType),
		PricePerLiter: price,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}
