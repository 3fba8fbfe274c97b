package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/mongodb"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertCredit(ctx context.Context, date string, qty float64) error {
	args := m.Called(ctx, date, qty)
	return args.Error(0)
}

func (m *MockStore) DebitSold(ctx context.Context, date string, qty float64, override bool) (bool, error) {
	args := m.Called(ctx, date, qty, override)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) GetDailyStock(ctx context.Context, date string) (*models.DailyStockRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStockRecord), args.Error(1)
}

func (m *MockStore) SetSubscriptionDemand(ctx context.Context, date string, liters float64) error {
	args := m.Called(ctx, date, liters)
	return args.Error(0)
}

func (m *MockStore) ListArchive(ctx context.Context, from, to string) ([]models.DailyStockArchive, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]models.DailyStockArchive), args.Error(1)
}

var testDay = time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC)

func TestCreditUpserts(t *testing.T) {
	store := new(MockStore)
	store.On("UpsertCredit", mock.Anything, "2025-06-10", 25.5).Return(nil)

	svc := NewService(store, nil)
	err := svc.Credit(context.Background(), testDay, 25.5)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCreditRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(new(MockStore), nil)

	assert.ErrorIs(t, svc.Credit(context.Background(), testDay, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.Credit(context.Background(), testDay, -3), ErrInvalidQuantity)
}

func TestDebitRefusesWhenUnderfunded(t *testing.T) {
	store := new(MockStore)
	store.On("DebitSold", mock.Anything, "2025-06-10", 40.0, false).Return(false, nil)

	svc := NewService(store, nil)
	err := svc.Debit(context.Background(), testDay, 40, false)

	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestDebitWithOverride(t *testing.T) {
	store := new(MockStore)
	store.On("DebitSold", mock.Anything, "2025-06-10", 40.0, true).Return(true, nil)

	svc := NewService(store, nil)

	assert.NoError(t, svc.Debit(context.Background(), testDay, 40, true))
	store.AssertExpectations(t)
}

func TestDebitApplied(t *testing.T) {
	store := new(MockStore)
	store.On("DebitSold", mock.Anything, "2025-06-10", 15.0, false).Return(true, nil)

	svc := NewService(store, nil)

	assert.NoError(t, svc.Debit(context.Background(), testDay, 15, false))
}

func TestSummaryMapsRecord(t *testing.T) {
	store := new(MockStore)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:               "2025-06-10",
		TotalStock:         120,
		AvailableStock:     80,
		SoldStock:          40,
		SubscriptionDemand: 30,
		LeftoverMilk:       20,
	}, nil)

	svc := NewService(store, nil)
	summary, err := svc.Summary(context.Background(), testDay)

	assert.NoError(t, err)
	assert.Equal(t, models.DailyStockSummary{
		Date:                  "2025-06-10",
		TotalStock:            120,
		AvailableStock:        80,
		SoldStock:             40,
		SubscriptionDemand:    30,
		LeftoverFromYesterday: 20,
	}, summary)
}

func TestSummaryZeroesWhenNoRow(t *testing.T) {
	store := new(MockStore)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(nil, mongodb.ErrNotFound)

	svc := NewService(store, nil)
	summary, err := svc.Summary(context.Background(), testDay)

	assert.NoError(t, err)
	assert.Equal(t, "2025-06-10", summary.Date)
	assert.Zero(t, summary.TotalStock)
	assert.Zero(t, summary.AvailableStock)
}

func TestInventorySummaryAggregates(t *testing.T) {
	store := new(MockStore)
	store.On("ListArchive", mock.Anything, "2025-06-01", "2025-06-03").Return([]models.DailyStockArchive{
		{Date: "2025-06-01", TotalStock: 100, SubscriptionDemand: 30, LeftoverMilk: 10},
		{Date: "2025-06-02", TotalStock: 140, SubscriptionDemand: 30, LeftoverMilk: 20},
		{Date: "2025-06-03", TotalStock: 120, SubscriptionDemand: 60, LeftoverMilk: 30},
	}, nil)

	svc := NewService(store, nil)
	summary, err := svc.InventorySummary(context.Background(),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, float64(120), summary.AvgTotalStock)
	assert.Equal(t, float64(100), summary.MinTotalStock)
	assert.Equal(t, float64(140), summary.MaxTotalStock)
	assert.Equal(t, float64(40), summary.AvgDemand)
	assert.Equal(t, float64(20), summary.AvgLeftoverMilk)
}

func TestInventorySummaryEmptyRange(t *testing.T) {
	store := new(MockStore)
	store.On("ListArchive", mock.Anything, "", "").Return([]models.DailyStockArchive{}, nil)

	svc := NewService(store, nil)
	summary, err := svc.InventorySummary(context.Background(), time.Time{}, time.Time{})

	assert.NoError(t, err)
	assert.Zero(t, summary.Days)
}
