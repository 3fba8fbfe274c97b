package models

import "time"

// Frequency is how often a subscription is fulfilled.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// SubscriptionStatus tracks whether a subscription still generates demand.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a recurring customer order feeding the demand forecast.
type Subscription struct {
	ID         string             `bson:"_id" json:"id"`
	CustomerID string             `bson:"customer_id" json:"customer_id"`
	MilkType   MilkType           `bson:"milk_type" json:"milk_type"`
	Quantity   float64            `bson:"quantity" json:"quantity"`
	Frequency  Frequency          `bson:"frequency" json:"frequency"`
	Status     SubscriptionStatus `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// DailyLiters normalizes the subscription quantity to liters per day.
// Weekly quantities spread over 7 days, monthly over 30.
func (s Subscription) DailyLiters() float64 {
	switch s.Frequency {
	case FrequencyWeekly:
		return s.Quantity / 7
	case FrequencyMonthly:
		return s.Quantity / 30
	default:
		return s.Quantity
	}
}
