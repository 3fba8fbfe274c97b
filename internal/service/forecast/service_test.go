package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

// MockSubscriptionStore is a mock implementation of the SubscriptionStore interface
type MockSubscriptionStore struct {
	mock.Mock
}

func (m *MockSubscriptionStore) ListActiveSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Subscription), args.Error(1)
}

// MockDemandStore is a mock implementation of the DemandStore interface
type MockDemandStore struct {
	mock.Mock
}

func (m *MockDemandStore) SetSubscriptionDemand(ctx context.Context, date string, liters float64) error {
	args := m.Called(ctx, date, liters)
	return args.Error(0)
}

func sub(qty float64, freq models.Frequency) models.Subscription {
	return models.Subscription{Quantity: qty, Frequency: freq, Status: models.SubscriptionActive}
}

func TestDailyDemandConversion(t *testing.T) {
	// 10 daily + 70 weekly + 300 monthly = 10 + 10 + 10 = 30
	subs := []models.Subscription{
		sub(10, models.FrequencyDaily),
		sub(70, models.FrequencyWeekly),
		sub(300, models.FrequencyMonthly),
	}

	assert.Equal(t, float64(30), DailyDemand(subs))
}

func TestDailyDemandCeilsOnlyTheFinalSum(t *testing.T) {
	// 1/7 + 1/7 = 0.2857... -> ceil(sum) = 1, not ceil(0.143)+ceil(0.143) = 2.
	subs := []models.Subscription{
		sub(1, models.FrequencyWeekly),
		sub(1, models.FrequencyWeekly),
	}

	assert.Equal(t, float64(1), DailyDemand(subs))
}

func TestDailyDemandSkipsCancelled(t *testing.T) {
	subs := []models.Subscription{
		sub(10, models.FrequencyDaily),
		{Quantity: 500, Frequency: models.FrequencyDaily, Status: models.SubscriptionCancelled},
	}

	assert.Equal(t, float64(10), DailyDemand(subs))
}

func TestDailyDemandEmpty(t *testing.T) {
	assert.Equal(t, float64(0), DailyDemand(nil))
}

func TestDailyDemandIsOrderIndependent(t *testing.T) {
	a := []models.Subscription{sub(3, models.FrequencyWeekly), sub(11, models.FrequencyMonthly)}
	b := []models.Subscription{sub(11, models.FrequencyMonthly), sub(3, models.FrequencyWeekly)}

	assert.Equal(t, DailyDemand(a), DailyDemand(b))
}

func TestRecomputeStampsToday(t *testing.T) {
	subs := new(MockSubscriptionStore)
	demand := new(MockDemandStore)

	subs.On("ListActiveSubscriptions", mock.Anything).Return([]models.Subscription{
		sub(10, models.FrequencyDaily),
		sub(70, models.FrequencyWeekly),
	}, nil)
	demand.On("SetSubscriptionDemand", mock.Anything, "2025-06-10", float64(20)).Return(nil)

	svc := NewService(subs, demand, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	liters, err := svc.Recompute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, float64(20), liters)
	demand.AssertExpectations(t)
}
