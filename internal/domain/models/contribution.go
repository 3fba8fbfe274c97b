package models

import "time"

// QualityRating is the ordinal grade assigned at collection time. 1 is best.
type QualityRating int

const (
	QualityGood        QualityRating = 1
	QualityFair        QualityRating = 2
	QualitySubstandard QualityRating = 3
)

// Valid reports whether the rating is one of the recognized tiers.
func (q QualityRating) Valid() bool {
	return q >= QualityGood && q <= QualitySubstandard
}

// Substandard reports whether the rating triggers the enforcement path.
func (q QualityRating) Substandard() bool {
	return q == QualitySubstandard
}

// MilkType identifies the product variety a contribution or subscription covers.
type MilkType string

const (
	MilkCow     MilkType = "cow"
	MilkBuffalo MilkType = "buffalo"
	MilkGoat    MilkType = "goat"
)

// MilkContribution is an immutable collection fact. A substandard contribution
// is stored with Quantity forced to 0 so it never reaches the ledger, but the
// rating stays on record for the enforcement walk.
type MilkContribution struct {
	ReceiptID  string        `bson:"receipt_id" json:"receipt_id"`
	FarmerID   string        `bson:"farmer_id" json:"farmer_id"`
	FarmerCode string        `bson:"farmer_code" json:"farmer_code"`
	MilkType   MilkType      `bson:"milk_type" json:"milk_type"`
	Quantity   float64       `bson:"quantity" json:"quantity"`
	Rating     QualityRating `bson:"quality_rating" json:"quality_rating"`
	Date       string        `bson:"contribution_date" json:"contribution_date"`
	PaymentID  string        `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}
