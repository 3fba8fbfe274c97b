package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the review state of a payment obligation.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Payment is the obligation created when a contribution is credited.
// Amount = contribution quantity x price per liter for the milk type.
// Only Status and ReviewedAt change after creation.
type Payment struct {
	ID         string          `bson:"_id" json:"id"`
	FarmerID   string          `bson:"farmer_id" json:"farmer_id"`
	ReceiptID  string          `bson:"receipt_id" json:"receipt_id"`
	Amount     decimal.Decimal `bson:"amount" json:"amount"`
	Status     PaymentStatus   `bson:"status" json:"status"`
	CreatedAt  time.Time       `bson:"created_at" json:"created_at"`
	ReviewedAt *time.Time      `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
}

// MilkPrice maps a milk type to its current per-liter purchase price.
type MilkPrice struct {
	MilkType      MilkType        `bson:"milk_type" json:"milk_type"`
	PricePerLiter decimal.Decimal `bson:"price_per_liter" json:"price_per_liter"`
	UpdatedAt     time.Time       `bson:"updated_at" json:"updated_at"`
}
