package models

import "time"

// FarmerStatus tracks whether a supplier may contribute milk.
type FarmerStatus string

const (
	FarmerActive    FarmerStatus = "active"
	FarmerSuspended FarmerStatus = "suspended"
)

// Farmer is a registered milk supplier. Code is the short human-facing
// identifier used at the collection point; ID is the internal identifier.
type Farmer struct {
	ID        string       `bson:"_id" json:"id"`
	Code      string       `bson:"code" json:"code"`
	Name      string       `bson:"name" json:"name"`
	Phone     string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Status    FarmerStatus `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}

// Suspended reports whether the farmer is blocked from contributing.
func (f Farmer) Suspended() bool {
	return f.Status == FarmerSuspended
}
