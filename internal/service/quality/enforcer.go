package quality

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// SuspendThreshold is the consecutive substandard streak, current submission
// included, at which a supplier account is blocked.
const SuspendThreshold = 3

// Verdict is the gate decision for a submitted contribution.
type Verdict string

const (
	VerdictAdmit   Verdict = "admit"
	VerdictWarn    Verdict = "warn"
	VerdictSuspend Verdict = "suspend"
)

// Decision carries the verdict and the substandard streak that produced it.
// Streak counts the current submission plus immediately preceding substandard
// contributions; it is 0 for an admitted submission.
type Decision struct {
	Verdict Verdict
	Streak  int
}

// ContributionStore provides the history the streak walk reads.
type ContributionStore interface {
	ListRecentContributions(ctx context.Context, farmerID string, limit int64) ([]models.MilkContribution, error)
}

// Enforcer decides whether a quality-rated contribution is admitted.
type Enforcer struct {
	store  ContributionStore
	logger *zap.Logger
}

// NewEnforcer wires a quality enforcer instance.
func NewEnforcer(store ContributionStore, logger *zap.Logger) *Enforcer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enforcer{store: store, logger: logger}
}

// Evaluate walks the farmer's contribution history most recent first and
// counts consecutive substandard ratings, starting at 1 for the current
// submission. The walk stops at the first non-substandard entry; an entry with
// no recognizable rating breaks the streak rather than extending it. The
// history walk is unbounded until the first good rating, matching the
// recorded enforcement behavior.
func (e *Enforcer) Evaluate(ctx context.Context, farmerID string, rating models.QualityRating) (Decision, error) {
	if !rating.Substandard() {
		return Decision{Verdict: VerdictAdmit}, nil
	}

	history, err := e.store.ListRecentContributions(ctx, farmerID, 0)
	if err != nil {
		return Decision{}, fmt.Errorf("load contribution history for %s: %w", farmerID, err)
	}

	streak := 1
	for _, entry := range history {
		if !entry.Rating.Substandard() {
			break
		}
		streak++
	}

	if streak >= SuspendThreshold {
		e.logger.Warn("supplier hit suspension threshold",
			zap.String("farmer_id", farmerID),
			zap.Int("streak", streak))
		return Decision{Verdict: VerdictSuspend, Streak: streak}, nil
	}

	return Decision{Verdict: VerdictWarn, Streak: streak}, nil
}
