package models

import "time"

// ReservationType distinguishes forward stock claims by purpose.
type ReservationType string

const (
	ReservationSubscription ReservationType = "subscription"
	ReservationManual       ReservationType = "manual"
)

// StockReservation is a forward claim against a future day's opening stock.
// At most one reservation exists per (date, type); a later reservation for the
// same key replaces the earlier one.
type StockReservation struct {
	Date      string          `bson:"reservation_date" json:"reservation_date"`
	Type      ReservationType `bson:"reservation_type" json:"reservation_type"`
	Amount    float64         `bson:"reserved_amount" json:"reserved_amount"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}
