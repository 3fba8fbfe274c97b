package reservation

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

func (m *MockStore) GetDailyStock(ctx context.Context, date string) (*models.DailyStockRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStockRecord), args.Error(1)
}

func (m *MockStore) UpsertReservation(ctx context.Context, res models.StockReservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func newTestService(store *MockStore) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC) }
	return svc
}

func TestReserveUnderfundedIsWarningNotWrite(t *testing.T) {
	store := new(MockStore)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:       "2025-06-10",
		TotalStock: 100,
	}, nil)

	svc := newTestService(store)
	result, err := svc.ReserveForDate(context.Background(),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 150, models.ReservationSubscription)

	assert.NoError(t, err)
	assert.False(t, result.Reserved)
	assert.NotEmpty(t, result.Reason)
	store.AssertNotCalled(t, "UpsertReservation", mock.Anything, mock.Anything)
}

func TestReserveSucceedsWithinStock(t *testing.T) {
	store := new(MockStore)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:       "2025-06-10",
		TotalStock: 100,
	}, nil)
	store.On("UpsertReservation", mock.Anything, mock.MatchedBy(func(res models.StockReservation) bool {
		return res.Date == "2025-06-11" &&
			res.Type == models.ReservationSubscription &&
			res.Amount == 60
	})).Return(nil)

	svc := newTestService(store)
	result, err := svc.ReserveForDate(context.Background(),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 60, models.ReservationSubscription)

	assert.NoError(t, err)
	assert.True(t, result.Reserved)
	store.AssertExpectations(t)
}

func TestReserveAgainstMissingSourceDay(t *testing.T) {
	store := new(MockStore)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(nil, mongodb.ErrNotFound)

	svc := newTestService(store)
	result, err := svc.ReserveForDate(context.Background(),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 10, models.ReservationSubscription)

	assert.NoError(t, err)
	assert.False(t, result.Reserved)
}

func TestReserveRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(new(MockStore))

	_, err := svc.ReserveForDate(context.Background(),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 0, models.ReservationSubscription)

	assert.ErrorIs(t, err, ErrInvalidAmount)
}
