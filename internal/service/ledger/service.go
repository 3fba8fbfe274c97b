package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/mongodb"
)

// ErrInvalidQuantity indicates a non-positive credit or debit amount.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrInsufficientStock indicates a debit would drive available stock negative.
var ErrInsufficientStock = errors.New("insufficient available stock")

// Store is the persistence surface the ledger mutates. Implementations must
// apply credits and debits as atomic increments; the service never does
// read-modify-write on stock figures.
type Store interface {
	UpsertCredit(ctx context.Context, date string, qty float64) error
	DebitSold(ctx context.Context, date string, qty float64, override bool) (bool, error)
	GetDailyStock(ctx context.Context, date string) (*models.DailyStockRecord, error)
	SetSubscriptionDemand(ctx context.Context, date string, liters float64) error
	ListArchive(ctx context.Context, from, to string) ([]models.DailyStockArchive, error)
}

// Service is the authoritative per-day stock ledger.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a stock ledger instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Credit adds admitted liters to a day's total and available stock, creating
// the row when it does not exist yet.
func (s *Service) Credit(ctx context.Context, day time.Time, qty float64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	date := models.DateKey(day)
	if err := s.store.UpsertCredit(ctx, date, qty); err != nil {
		return err
	}

	s.logger.Info("stock credited", zap.String("date", date), zap.Float64("liters", qty))
	return nil
}

// Debit records a completed sale against a day. It refuses with
// ErrInsufficientStock when the sale would drive available stock negative,
// unless the caller marks it as an explicit override.
func (s *Service) Debit(ctx context.Context, day time.Time, qty float64, override bool) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	date := models.DateKey(day)
	applied, err := s.store.DebitSold(ctx, date, qty, override)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("debit %0.2fL on %s: %w", qty, date, ErrInsufficientStock)
	}

	s.logger.Info("stock debited",
		zap.String("date", date),
		zap.Float64("liters", qty),
		zap.Bool("override", override))
	return nil
}

// Summary returns the read view for a day. A day with no ledger row yet
// reports zeroes rather than an error.
func (s *Service) Summary(ctx context.Context, day time.Time) (models.DailyStockSummary, error) {
	date := models.DateKey(day)

	record, err := s.store.GetDailyStock(ctx, date)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.DailyStockSummary{Date: date}, nil
	}
	if err != nil {
		return models.DailyStockSummary{}, err
	}

	return models.DailyStockSummary{
		Date:                  record.Date,
		TotalStock:            record.TotalStock,
		AvailableStock:        record.AvailableStock,
		SoldStock:             record.SoldStock,
		SubscriptionDemand:    record.SubscriptionDemand,
		LeftoverFromYesterday: record.LeftoverMilk,
	}, nil
}

// InventorySummary aggregates the archived days in [from, to]. Zero bounds
// are open-ended.
func (s *Service) InventorySummary(ctx context.Context, from, to time.Time) (models.InventorySummary, error) {
	var fromKey, toKey string
	if !from.IsZero() {
		fromKey = models.DateKey(from)
	}
	if !to.IsZero() {
		toKey = models.DateKey(to)
	}

	records, err := s.store.ListArchive(ctx, fromKey, toKey)
	if err != nil {
		return models.InventorySummary{}, err
	}
	if len(records) == 0 {
		return models.InventorySummary{}, nil
	}

	summary := models.InventorySummary{
		Days:          len(records),
		MinTotalStock: records[0].TotalStock,
		MaxTotalStock: records[0].TotalStock,
	}

	var totalSum, demandSum, leftoverSum float64
	for _, rec := range records {
		totalSum += rec.TotalStock
		demandSum += rec.SubscriptionDemand
		leftoverSum += rec.LeftoverMilk
		if rec.TotalStock < summary.MinTotalStock {
			summary.MinTotalStock = rec.TotalStock
		}
		if rec.TotalStock > summary.MaxTotalStock {
			summary.MaxTotalStock = rec.TotalStock
		}
	}

	days := float64(len(records))
	summary.AvgTotalStock = totalSum / days
	summary.AvgDemand = demandSum / days
	summary.AvgLeftoverMilk = leftoverSum / days
	return summary, nil
}
