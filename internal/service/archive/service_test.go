package archive

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

func (m *MockStore) GetReservation(ctx context.Context, date string, rtype models.ReservationType) (*models.StockReservation, error) {
	args := m.Called(ctx, date, rtype)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockReservation), args.Error(1)
}

func (m *MockStore) SeedNextDay(ctx context.Context, sourceDate, date string, leftover, demand float64) (bool, error) {
	args := m.Called(ctx, sourceDate, date, leftover, demand)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) InsertArchive(ctx context.Context, record models.DailyStockArchive) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) HasArchive(ctx context.Context, date string) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListArchive(ctx context.Context, from, to string) ([]models.DailyStockArchive, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]models.DailyStockArchive), args.Error(1)
}

var closeDay = time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)

func TestArchiveAndRollFullClose(t *testing.T) {
	store := new(MockStore)
	store.On("HasArchive", mock.Anything, "2025-06-10").Return(false, nil)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:               "2025-06-10",
		TotalStock:         120,
		AvailableStock:     45,
		SoldStock:          75,
		SubscriptionDemand: 30,
		LeftoverMilk:       20,
	}, nil)
	store.On("GetReservation", mock.Anything, "2025-06-11", models.ReservationSubscription).Return(&models.StockReservation{
		Date:   "2025-06-11",
		Type:   models.ReservationSubscription,
		Amount: 35,
	}, nil)
	// Next day opens with exactly the closing available stock, plus the claim
	// folded into demand.
	store.On("SeedNextDay", mock.Anything, "2025-06-10", "2025-06-11", float64(45), float64(35)).Return(true, nil)
	store.On("InsertArchive", mock.Anything, mock.MatchedBy(func(rec models.DailyStockArchive) bool {
		return rec.Date == "2025-06-10" && rec.TotalStock == 120 && rec.AvailableStock == 45
	})).Return(true, nil)

	svc := NewService(store, nil)
	result, err := svc.ArchiveAndRoll(context.Background(), closeDay)

	assert.NoError(t, err)
	assert.True(t, result.Archived)
	store.AssertExpectations(t)
}

func TestArchiveAndRollWithoutReservation(t *testing.T) {
	store := new(MockStore)
	store.On("HasArchive", mock.Anything, "2025-06-10").Return(false, nil)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:           "2025-06-10",
		TotalStock:     100,
		AvailableStock: 100,
	}, nil)
	store.On("GetReservation", mock.Anything, "2025-06-11", models.ReservationSubscription).Return(nil, mongodb.ErrNotFound)
	store.On("SeedNextDay", mock.Anything, "2025-06-10", "2025-06-11", float64(100), float64(0)).Return(true, nil)
	store.On("InsertArchive", mock.Anything, mock.Anything).Return(true, nil)

	svc := NewService(store, nil)
	result, err := svc.ArchiveAndRoll(context.Background(), closeDay)

	assert.NoError(t, err)
	assert.True(t, result.Archived)
}

func TestArchiveAndRollAlreadyArchivedIsNoOp(t *testing.T) {
	store := new(MockStore)
	store.On("HasArchive", mock.Anything, "2025-06-10").Return(true, nil)

	svc := NewService(store, nil)
	result, err := svc.ArchiveAndRoll(context.Background(), closeDay)

	assert.NoError(t, err)
	assert.False(t, result.Archived)
	assert.Equal(t, "already archived", result.Reason)
	store.AssertNotCalled(t, "SeedNextDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "InsertArchive", mock.Anything, mock.Anything)
}

func TestArchiveAndRollNothingToArchive(t *testing.T) {
	store := new(MockStore)
	store.On("HasArchive", mock.Anything, "2025-06-10").Return(false, nil)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(nil, mongodb.ErrNotFound)

	svc := NewService(store, nil)
	result, err := svc.ArchiveAndRoll(context.Background(), closeDay)

	assert.NoError(t, err)
	assert.False(t, result.Archived)
	assert.Equal(t, "nothing to archive", result.Reason)
}

func TestArchiveAndRollRetryAfterCrash(t *testing.T) {
	// Crash happened after the seed but before the archive insert. The retry
	// must skip the seed (guard reports false) and still commit the archive.
	store := new(MockStore)
	store.On("HasArchive", mock.Anything, "2025-06-10").Return(false, nil)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:           "2025-06-10",
		TotalStock:     80,
		AvailableStock: 50,
	}, nil)
	store.On("GetReservation", mock.Anything, "2025-06-11", models.ReservationSubscription).Return(nil, mongodb.ErrNotFound)
	store.On("SeedNextDay", mock.Anything, "2025-06-10", "2025-06-11", float64(50), float64(0)).Return(false, nil)
	store.On("InsertArchive", mock.Anything, mock.Anything).Return(true, nil)

	svc := NewService(store, nil)
	result, err := svc.ArchiveAndRoll(context.Background(), closeDay)

	assert.NoError(t, err)
	assert.True(t, result.Archived)
}

func TestArchiveAndRollConcurrentInsertLoses(t *testing.T) {
	// Another invocation inserted the archive between our check and insert.
	store := new(MockStore)
	store.On("HasArchive", mock.Anything, "2025-06-10").Return(false, nil)
	store.On("GetDailyStock", mock.Anything, "2025-06-10").Return(&models.DailyStockRecord{
		Date:           "2025-06-10",
		TotalStock:     80,
		AvailableStock: 50,
	}, nil)
	store.On("GetReservation", mock.Anything, "2025-06-11", models.ReservationSubscription).Return(nil, mongodb.ErrNotFound)
	store.On("SeedNextDay", mock.Anything, "2025-06-10", "2025-06-11", float64(50), float64(0)).Return(false, nil)
	store.On("InsertArchive", mock.Anything, mock.Anything).Return(false, nil)

	svc := NewService(store, nil)
	result, err := svc.ArchiveAndRoll(context.Background(), closeDay)

	assert.NoError(t, err)
	assert.False(t, result.Archived)
	assert.Equal(t, "already archived", result.Reason)
}
