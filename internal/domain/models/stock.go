package models

import "time"

// DateLayout is the canonical key format for daily stock rows.
const DateLayout = "2006-01-02"

// DateKey normalizes a timestamp to the calendar-day key used across collections.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DailyStockRecord is the single live ledger row for one calendar day.
// All quantities are liters. Mutations happen through atomic store-level
// increments; the struct itself is only a read snapshot.
type DailyStockRecord struct {
	Date               string    `bson:"date" json:"date"`
	TotalStock         float64   `bson:"total_stock" json:"total_stock"`
	AvailableStock     float64   `bson:"available_stock" json:"available_stock"`
	SoldStock          float64   `bson:"sold_stock" json:"sold_stock"`
	SubscriptionDemand float64   `bson:"subscription_demand" json:"subscription_demand"`
	LeftoverMilk       float64   `bson:"leftover_milk" json:"leftover_milk"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// CanDebit reports whether a sale of qty liters would keep available stock non-negative.
func (r DailyStockRecord) CanDebit(qty float64) bool {
	return r.AvailableStock >= qty
}

// DailyStockArchive is the immutable day-close copy of a ledger row.
type DailyStockArchive struct {
	Date               string    `bson:"date" json:"date"`
	TotalStock         float64   `bson:"total_stock" json:"total_stock"`
	AvailableStock     float64   `bson:"available_stock" json:"available_stock"`
	SoldStock          float64   `bson:"sold_stock" json:"sold_stock"`
	SubscriptionDemand float64   `bson:"subscription_demand" json:"subscription_demand"`
	LeftoverMilk       float64   `bson:"leftover_milk" json:"leftover_milk"`
	ArchivedAt         time.Time `bson:"archived_at" json:"archived_at"`
}

// DailyStockSummary is the read view exposed to the UI layer.
type DailyStockSummary struct {
	Date                  string  `json:"date"`
	TotalStock            float64 `json:"total_stock"`
	AvailableStock        float64 `json:"available_stock"`
	SoldStock             float64 `json:"sold_stock"`
	SubscriptionDemand    float64 `json:"subscription_demand"`
	LeftoverFromYesterday float64 `json:"leftover_from_yesterday"`
}

// InventorySummary aggregates archived days for the reporting endpoint.
type InventorySummary struct {
	Days            int     `json:"days"`
	AvgTotalStock   float64 `json:"avg_total_stock"`
	MinTotalStock   float64 `json:"min_total_stock"`
	MaxTotalStock   float64 `json:"max_total_stock"`
	AvgDemand       float64 `json:"avg_demand"`
	AvgLeftoverMilk float64 `json:"avg_leftover_milk"`
}
