package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/mongodb"
)

// ErrInvalidAmount indicates a non-positive reservation amount.
var ErrInvalidAmount = errors.New("reservation amount must be positive")

// Store is the persistence surface for forward claims and the source-day check.
type Store interface {
	GetDailyStock(ctx context.Context, date string) (*models.DailyStockRecord, error)
	UpsertReservation(ctx context.Context, res models.StockReservation) error
}

// Result reports the outcome of a reservation attempt. An underfunded request
// is a warning, not a failure: Reserved is false, Reason says why, and nothing
// was written.
type Result struct {
	Reserved bool   `json:"reserved"`
	Reason   string `json:"reason,omitempty"`
}

// Service records forward claims against future days' stock. It never touches
// available_stock; the claim is applied to the target day at rollover.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a reservation manager.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// ReserveForDate upserts a claim keyed by (target date, type), funded from
// today's stock. If today's total stock cannot cover the amount the request
// is declined as a warning and no claim is written. A repeated reservation
// for the same key replaces the previous amount rather than stacking.
func (s *Service) ReserveForDate(ctx context.Context, target time.Time, amount float64, rtype models.ReservationType) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}

	sourceDate := models.DateKey(s.now())
	record, err := s.store.GetDailyStock(ctx, sourceDate)
	if err != nil && !errors.Is(err, mongodb.ErrNotFound) {
		return Result{}, err
	}

	var sourceTotal float64
	if record != nil {
		sourceTotal = record.TotalStock
	}

	if amount > sourceTotal {
		s.logger.Warn("reservation underfunded",
			zap.String("source_date", sourceDate),
			zap.Float64("requested", amount),
			zap.Float64("total_stock", sourceTotal))
		return Result{
			Reserved: false,
			Reason:   fmt.Sprintf("requested %.2fL exceeds %.2fL stock on %s", amount, sourceTotal, sourceDate),
		}, nil
	}

	claim := models.StockReservation{
		Date:   models.DateKey(target),
		Type:   rtype,
		Amount: amount,
	}
	if err := s.store.UpsertReservation(ctx, claim); err != nil {
		return Result{}, err
	}

	s.logger.Info("stock reserved",
		zap.String("target_date", claim.Date),
		zap.String("type", string(rtype)),
		zap.Float64("liters", amount))
	return Result{Reserved: true}, nil
}
