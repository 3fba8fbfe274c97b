package archive

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/mongodb"
)

// Store is the persistence surface for day-close rollover.
type Store interface {
	GetDailyStock(ctx context.Context, date string) (*models.DailyStockRecord, error)
	GetReservation(ctx context.Context, date string, rtype models.ReservationType) (*models.StockReservation, error)
	SeedNextDay(ctx context.Context, sourceDate, date string, leftover, demand float64) (bool, error)
	InsertArchive(ctx context.Context, record models.DailyStockArchive) (bool, error)
	HasArchive(ctx context.Context, date string) (bool, error)
	ListArchive(ctx context.Context, from, to string) ([]models.DailyStockArchive, error)
}

// Result reports a rollover outcome. Archived is false for the idempotent
// no-op cases (already archived, nothing to archive); Reason distinguishes
// them for operators.
type Result struct {
	Archived bool   `json:"archived"`
	Reason   string `json:"reason,omitempty"`
}

// Service closes out a day's ledger into immutable history and seeds the next
// day's opening balance.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an archive service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// ArchiveAndRoll closes out one calendar day. Every step is individually
// idempotent, so a crash at any point is repaired by rerunning the whole
// operation:
//
//  1. an already-archived day is a no-op;
//  2. the next day is seeded with the closing available stock plus any
//     subscription claim, through one guarded atomic update that applies at
//     most once per source day;
//  3. the archive copy is inserted last, so its unique date index acts as the
//     commit marker.
func (s *Service) ArchiveAndRoll(ctx context.Context, day time.Time) (Result, error) {
	date := models.DateKey(day)

	archived, err := s.store.HasArchive(ctx, date)
	if err != nil {
		return Result{}, err
	}
	if archived {
		s.logger.Info("day already archived", zap.String("date", date))
		return Result{Archived: false, Reason: "already archived"}, nil
	}

	record, err := s.store.GetDailyStock(ctx, date)
	if errors.Is(err, mongodb.ErrNotFound) {
		s.logger.Info("nothing to archive", zap.String("date", date))
		return Result{Archived: false, Reason: "nothing to archive"}, nil
	}
	if err != nil {
		return Result{}, err
	}

	nextDate := models.DateKey(day.AddDate(0, 0, 1))

	var reserved float64
	claim, err := s.store.GetReservation(ctx, nextDate, models.ReservationSubscription)
	if err != nil && !errors.Is(err, mongodb.ErrNotFound) {
		return Result{}, err
	}
	if claim != nil {
		reserved = claim.Amount
	}

	leftover := record.AvailableStock
	seeded, err := s.store.SeedNextDay(ctx, date, nextDate, leftover, reserved)
	if err != nil {
		return Result{}, err
	}
	if !seeded {
		s.logger.Info("next day already seeded", zap.String("date", nextDate))
	}

	inserted, err := s.store.InsertArchive(ctx, models.DailyStockArchive{
		Date:               record.Date,
		TotalStock:         record.TotalStock,
		AvailableStock:     record.AvailableStock,
		SoldStock:          record.SoldStock,
		SubscriptionDemand: record.SubscriptionDemand,
		LeftoverMilk:       record.LeftoverMilk,
		ArchivedAt:         s.now().UTC(),
	})
	if err != nil {
		return Result{}, err
	}
	if !inserted {
		return Result{Archived: false, Reason: "already archived"}, nil
	}

	s.logger.Info("day archived",
		zap.String("date", date),
		zap.Float64("leftover", leftover),
		zap.Float64("reserved_next", reserved))
	return Result{Archived: true}, nil
}

// List returns archived days in the inclusive [from, to] range, oldest first.
// Zero bounds are open-ended.
func (s *Service) List(ctx context.Context, from, to time.Time) ([]models.DailyStockArchive, error) {
	var fromKey, toKey string
	if !from.IsZero() {
		fromKey = models.DateKey(from)
	}
	if !to.IsZero() {
		toKey = models.DateKey(to)
	}
	return s.store.ListArchive(ctx, fromKey, toKey)
}
