package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/mongodb"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/quality"
	"github.com/saheed-11/milkyway-delivery-system-sub000/pkg/clients/notify"
)

// ErrValidation indicates a malformed submission (missing farmer code,
// non-positive quantity, unknown rating).
var ErrValidation = errors.New("invalid contribution submission")

// ErrFarmerNotFound indicates the short code resolved no supplier.
var ErrFarmerNotFound = errors.New("farmer not found")

// ErrFarmerSuspended indicates the supplier is blocked pending manual review.
var ErrFarmerSuspended = errors.New("farmer is suspended")

// ErrPriceNotFound indicates no purchase price is configured for a milk type.
var ErrPriceNotFound = errors.New("no price configured for milk type")

// FarmerStore resolves suppliers and transitions their account status.
type FarmerStore interface {
	FindFarmerByCode(ctx context.Context, code string) (*models.Farmer, error)
	UpdateFarmerStatus(ctx context.Context, farmerID string, status models.FarmerStatus) error
}

// ContributionStore appends immutable collection facts.
type ContributionStore interface {
	InsertContribution(ctx context.Context, c models.MilkContribution) error
}

// PaymentStore issues and reviews payment obligations.
type PaymentStore interface {
	InsertPayment(ctx context.Context, p models.Payment) error
	ReviewPayment(ctx context.Context, paymentID string, status models.PaymentStatus) (bool, error)
	GetMilkPrice(ctx context.Context, milkType models.MilkType) (*models.MilkPrice, error)
}

// QualityGate decides whether a rated contribution enters the ledger.
type QualityGate interface {
	Evaluate(ctx context.Context, farmerID string, rating models.QualityRating) (quality.Decision, error)
}

// Ledger credits admitted liters to the day's stock.
type Ledger interface {
	Credit(ctx context.Context, day time.Time, qty float64) error
}

// SubmitResult tells the collection point what happened to a submission.
// Suspension is reported distinctly from a low-quality warning because it
// blocks the account until manual review.
type SubmitResult struct {
	Admitted  bool            `json:"admitted"`
	Suspended bool            `json:"suspended"`
	Streak    int             `json:"streak,omitempty"`
	Warning   string          `json:"warning,omitempty"`
	ReceiptID string          `json:"receipt_id"`
	Payment   *models.Payment `json:"payment,omitempty"`
}

// Service is the contribution intake and payment issuer.
type Service struct {
	farmers       FarmerStore
	contributions ContributionStore
	payments      PaymentStore
	gate          QualityGate
	ledger        Ledger
	notifier      notify.Notifier
	opsContact    string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService wires the intake pipeline. notifier may be the no-op
// implementation when no gateway is configured.
func NewService(farmers FarmerStore, contributions ContributionStore, payments PaymentStore,
	gate QualityGate, ledger Ledger, notifier notify.Notifier, opsContact string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &Service{
		farmers:       farmers,
		contributions: contributions,
		payments:      payments,
		gate:          gate,
		ledger:        ledger,
		notifier:      notifier,
		opsContact:    opsContact,
		logger:        logger,
		now:           time.Now,
	}
}

// Submit validates and records a quality-rated delivery. An admitted
// contribution gets a pending payment and a ledger credit. Warn and suspend
// outcomes persist the contribution with quantity forced to 0 so the rating
// stays on record without touching inventory.
func (s *Service) Submit(ctx context.Context, farmerCode string, milkType models.MilkType, qty float64, rating models.QualityRating) (SubmitResult, error) {
	if farmerCode == "" {
		return SubmitResult{}, fmt.Errorf("%w: farmer code is required", ErrValidation)
	}
	if qty <= 0 {
		return SubmitResult{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !rating.Valid() {
		return SubmitResult{}, fmt.Errorf("%w: unknown quality rating %d", ErrValidation, rating)
	}
	if milkType == "" {
		return SubmitResult{}, fmt.Errorf("%w: milk type is required", ErrValidation)
	}

	farmer, err := s.farmers.FindFarmerByCode(ctx, farmerCode)
	if errors.Is(err, mongodb.ErrNotFound) {
		return SubmitResult{}, fmt.Errorf("%w: code %s", ErrFarmerNotFound, farmerCode)
	}
	if err != nil {
		return SubmitResult{}, err
	}
	if farmer.Suspended() {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrFarmerSuspended, farmer.Code)
	}

	decision, err := s.gate.Evaluate(ctx, farmer.ID, rating)
	if err != nil {
		return SubmitResult{}, err
	}

	switch decision.Verdict {
	case quality.VerdictSuspend:
		return s.suspend(ctx, farmer, milkType, rating, decision.Streak)
	case quality.VerdictWarn:
		return s.warn(ctx, farmer, milkType, rating, decision.Streak)
	}

	return s.admit(ctx, farmer, milkType, qty, rating)
}

func (s *Service) suspend(ctx context.Context, farmer *models.Farmer, milkType models.MilkType, rating models.QualityRating, streak int) (SubmitResult, error) {
	if err := s.farmers.UpdateFarmerStatus(ctx, farmer.ID, models.FarmerSuspended); err != nil {
		return SubmitResult{}, err
	}

	receipt, err := s.record(ctx, uuid.NewString(), farmer, milkType, 0, rating, "")
	if err != nil {
		return SubmitResult{}, err
	}

	// Best-effort alert; failures are logged, never propagated.
	alert := fmt.Sprintf("Farmer %s (%s) suspended after %d consecutive substandard deliveries.", farmer.Name, farmer.Code, streak)
	if err := s.notifier.SendAlert(ctx, s.opsContact, alert); err != nil {
		s.logger.Error("suspension alert failed", zap.String("farmer_code", farmer.Code), zap.Error(err))
	}

	s.logger.Warn("farmer suspended",
		zap.String("farmer_code", farmer.Code),
		zap.Int("streak", streak))

	return SubmitResult{
		Suspended: true,
		Streak:    streak,
		Warning:   fmt.Sprintf("account suspended after %d consecutive substandard deliveries", streak),
		ReceiptID: receipt,
	}, nil
}

func (s *Service) warn(ctx context.Context, farmer *models.Farmer, milkType models.MilkType, rating models.QualityRating, streak int) (SubmitResult, error) {
	receipt, err := s.record(ctx, uuid.NewString(), farmer, milkType, 0, rating, "")
	if err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{
		Streak:    streak,
		Warning:   fmt.Sprintf("substandard delivery %d of %d; quantity not credited", streak, quality.SuspendThreshold),
		ReceiptID: receipt,
	}, nil
}

func (s *Service) admit(ctx context.Context, farmer *models.Farmer, milkType models.MilkType, qty float64, rating models.QualityRating) (SubmitResult, error) {
	price, err := s.payments.GetMilkPrice(ctx, milkType)
	if errors.Is(err, mongodb.ErrNotFound) {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrPriceNotFound, milkType)
	}
	if err != nil {
		return SubmitResult{}, err
	}

	payment := models.Payment{
		ID:        uuid.NewString(),
		FarmerID:  farmer.ID,
		Amount:    decimal.NewFromFloat(qty).Mul(price.PricePerLiter),
		Status:    models.PaymentPending,
		CreatedAt: s.now().UTC(),
	}

	receiptID, err := s.issue(ctx, farmer, milkType, qty, rating, &payment)
	if err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{
		Admitted:  true,
		ReceiptID: receiptID,
		Payment:   &payment,
	}

	// The milk was physically collected, so the contribution and payment
	// stand even when the ledger credit fails. The caller is told inventory
	// is out of sync; the credit is never retried automatically because a
	// blind retry could double-credit.
	if err := s.ledger.Credit(ctx, s.now(), qty); err != nil {
		s.logger.Error("ledger credit failed after contribution was recorded",
			zap.String("receipt_id", receiptID),
			zap.Float64("liters", qty),
			zap.Error(err))
		result.Warning = "contribution recorded but inventory is out of sync; notify an operator"
	}

	return result, nil
}

// issue persists the payment, then the contribution sharing its receipt id.
func (s *Service) issue(ctx context.Context, farmer *models.Farmer, milkType models.MilkType, qty float64, rating models.QualityRating, payment *models.Payment) (string, error) {
	receiptID := uuid.NewString()
	payment.ReceiptID = receiptID

	if err := s.payments.InsertPayment(ctx, *payment); err != nil {
		return "", err
	}

	return s.record(ctx, receiptID, farmer, milkType, qty, rating, payment.ID)
}

func (s *Service) record(ctx context.Context, receiptID string, farmer *models.Farmer, milkType models.MilkType, qty float64, rating models.QualityRating, paymentID string) (string, error) {
	contribution := models.MilkContribution{
		ReceiptID:  receiptID,
		FarmerID:   farmer.ID,
		FarmerCode: farmer.Code,
		MilkType:   milkType,
		Quantity:   qty,
		Rating:     rating,
		Date:       models.DateKey(s.now()),
		PaymentID:  paymentID,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.contributions.InsertContribution(ctx, contribution); err != nil {
		return "", err
	}
	return contribution.ReceiptID, nil
}

// ReviewPayment settles a pending payment. A payment that was already
// reviewed reports applied=false.
func (s *Service) ReviewPayment(ctx context.Context, paymentID string, approve bool) (bool, error) {
	status := models.PaymentApproved
	if !approve {
		status = models.PaymentRejected
	}
	return s.payments.ReviewPayment(ctx, paymentID, status)
}

// ReinstateFarmer lifts a suspension after manual review.
func (s *Service) ReinstateFarmer(ctx context.Context, farmerCode string) error {
	farmer, err := s.farmers.FindFarmerByCode(ctx, farmerCode)
	if errors.Is(err, mongodb.ErrNotFound) {
		return fmt.Errorf("%w: code %s", ErrFarmerNotFound, farmerCode)
	}
	if err != nil {
		return err
	}

	if err := s.farmers.UpdateFarmerStatus(ctx, farmer.ID, models.FarmerActive); err != nil {
		return err
	}

	s.logger.Info("farmer reinstated", zap.String("farmer_code", farmer.Code))
	return nil
}
