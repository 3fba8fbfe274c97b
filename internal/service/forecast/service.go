package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// SubscriptionStore lists the subscriptions that generate daily demand.
type SubscriptionStore interface {
	ListActiveSubscriptions(ctx context.Context) ([]models.Subscription, error)
}

// DemandStore stamps the computed figure on the daily ledger row.
type DemandStore interface {
	SetSubscriptionDemand(ctx context.Context, date string, liters float64) error
}

// Service converts heterogeneous subscription frequencies into a single
// liters-per-day figure.
type Service struct {
	subs   SubscriptionStore
	demand DemandStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a demand forecaster.
func NewService(subs SubscriptionStore, demand DemandStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		subs:   subs,
		demand: demand,
		logger: logger,
		now:    time.Now,
	}
}

// DailyDemand sums per-subscription daily liters and rounds the final sum up
// to the next whole liter. Rounding only the total keeps the figure linear
// across subscription sets; rounding up guarantees reserved stock covers the
// fractional remainder. Cancelled subscriptions contribute nothing.
func DailyDemand(subs []models.Subscription) float64 {
	var total float64
	for _, sub := range subs {
		if sub.Status != models.SubscriptionActive {
			continue
		}
		total += sub.DailyLiters()
	}
	return math.Ceil(total)
}

// Recompute recalculates today's demand from the active subscriptions and
// stamps it on the ledger row.
func (s *Service) Recompute(ctx context.Context) (float64, error) {
	subs, err := s.subs.ListActiveSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active subscriptions: %w", err)
	}

	liters := DailyDemand(subs)
	today := models.DateKey(s.now())

	if err := s.demand.SetSubscriptionDemand(ctx, today, liters); err != nil {
		return 0, fmt.Errorf("stamp subscription demand: %w", err)
	}

	s.logger.Info("daily demand recomputed",
		zap.String("date", today),
		zap.Float64("liters", liters),
		zap.Int("subscriptions", len(subs)))

	return liters, nil
}
