package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qprocure/inventory-backend/internal/cache"
	"github.com/qprocure/inventory-backend/internal/domain"
)

var testNow = time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)

func newTestPredictionService(store *memStore) *PredictionService {
	svc := NewPredictionService(store, store, cache.NewNoopForecastCache(), 7)
	svc.now = func() time.Time { return testNow }
	return svc
}

func boltProduct(stock int) domain.Product {
	return domain.Product{
		Code:         "Q-2411-1234",
		Name:         "Hex Bolt M12",
		CurrentStock: stock,
		MinStock:     10,
		ReorderPoint: 40,
		StockUnit:    "ea",
	}
}

func record(code string, qty int, at time.Time) domain.StockRecord {
	return domain.StockRecord{
		ProductCode: code,
		Quantity:    qty,
		Confidence:  1.0,
		Source:      domain.SourceManual,
		Timestamp:   at,
	}
}

func TestPredictUnknownProduct(t *testing.T) {
	store := newMemStore()
	svc := newTestPredictionService(store)

	_, err := svc.Predict(context.Background(), "Q-0000-0000")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPredictInsufficientData(t *testing.T) {
	ctx := context.Background()

	for _, recordCount := range []int{0, 1} {
		store := newMemStore(boltProduct(30))
		for i := 0; i < recordCount; i++ {
			rec := record("Q-2411-1234", 30, testNow.AddDate(0, 0, -1))
			require.NoError(t, store.Append(ctx, &rec))
		}

		svc := newTestPredictionService(store)
		forecast, err := svc.Predict(ctx, "Q-2411-1234")
		require.NoError(t, err)

		assert.True(t, forecast.InsufficientData)
		assert.Equal(t, domain.StatusWarning, forecast.Status)
		assert.Nil(t, forecast.DailyConsumptionRate)
		assert.Nil(t, forecast.DaysUntilReorder)
		assert.Nil(t, forecast.DaysUntilStockout)
		assert.Empty(t, forecast.ReorderDate)
		assert.Empty(t, forecast.StockoutDate)
	}
}

func TestPredictIgnoresRecordsOutsideWindow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(boltProduct(30))

	old := record("Q-2411-1234", 100, testNow.AddDate(0, 0, -10))
	recent := record("Q-2411-1234", 30, testNow.AddDate(0, 0, -1))
	require.NoError(t, store.Append(ctx, &old))
	require.NoError(t, store.Append(ctx, &recent))

	svc := newTestPredictionService(store)
	forecast, err := svc.Predict(ctx, "Q-2411-1234")
	require.NoError(t, err)

	// Only one record falls inside the 7-day window.
	assert.True(t, forecast.InsufficientData)
}

func TestPredictTwoPointForecast(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(boltProduct(30))

	first := record("Q-2411-1234", 100, testNow.AddDate(0, 0, -5))
	last := record("Q-2411-1234", 30, testNow)
	require.NoError(t, store.Append(ctx, &first))
	require.NoError(t, store.Append(ctx, &last))

	svc := newTestPredictionService(store)
	forecast, err := svc.Predict(ctx, "Q-2411-1234")
	require.NoError(t, err)

	require.NotNil(t, forecast.DailyConsumptionRate)
	assert.InDelta(t, 14.0, *forecast.DailyConsumptionRate, 1e-9)

	// (30 - 40) / 14 ≈ -0.71: the reorder point is already crossed and the
	// negative day count is kept to signal an overdue reorder.
	require.NotNil(t, forecast.DaysUntilReorder)
	assert.InDelta(t, -0.7, *forecast.DaysUntilReorder, 1e-9)

	// (30 - 10) / 14 ≈ 1.43 days to stockout.
	require.NotNil(t, forecast.DaysUntilStockout)
	assert.InDelta(t, 1.4, *forecast.DaysUntilStockout, 1e-9)

	assert.Equal(t, "2025-11-05", forecast.ReorderDate)
	assert.Equal(t, "2025-11-07", forecast.StockoutDate)

	assert.Equal(t, domain.StatusWarning, forecast.Status)
	require.NotNil(t, forecast.Confidence)
	assert.InDelta(t, 0.2, *forecast.Confidence, 1e-9)
	assert.Equal(t, 2, forecast.DataPoints)
	assert.False(t, forecast.InsufficientData)
	assert.False(t, forecast.NoConsumption)
}

func TestPredictDegenerateTimeSpan(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(boltProduct(30))

	at := testNow.AddDate(0, 0, -1)
	a := record("Q-2411-1234", 100, at)
	b := record("Q-2411-1234", 30, at)
	require.NoError(t, store.Append(ctx, &a))
	require.NoError(t, store.Append(ctx, &b))

	svc := newTestPredictionService(store)
	forecast, err := svc.Predict(ctx, "Q-2411-1234")
	require.NoError(t, err)

	assert.True(t, forecast.InsufficientData)
	assert.Equal(t, "time span too short", forecast.Message)
	assert.Nil(t, forecast.DailyConsumptionRate)
}

func TestPredictNoConsumption(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(boltProduct(30))

	first := record("Q-2411-1234", 30, testNow.AddDate(0, 0, -5))
	last := record("Q-2411-1234", 100, testNow)
	require.NoError(t, store.Append(ctx, &first))
	require.NoError(t, store.Append(ctx, &last))

	svc := newTestPredictionService(store)
	forecast, err := svc.Predict(ctx, "Q-2411-1234")
	require.NoError(t, err)

	assert.True(t, forecast.NoConsumption)
	assert.Equal(t, domain.StatusSafe, forecast.Status)
	require.NotNil(t, forecast.DailyConsumptionRate)
	assert.InDelta(t, -14.0, *forecast.DailyConsumptionRate, 1e-9)
	assert.Nil(t, forecast.DaysUntilReorder)
	assert.Nil(t, forecast.DaysUntilStockout)
	assert.Empty(t, forecast.ReorderDate)
	assert.Empty(t, forecast.StockoutDate)
}

func TestPredictConfidenceSaturates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(boltProduct(30))

	for i := 0; i < 12; i++ {
		rec := record("Q-2411-1234", 120-i*5, testNow.Add(-time.Duration(12-i)*6*time.Hour))
		require.NoError(t, store.Append(ctx, &rec))
	}

	svc := newTestPredictionService(store)
	forecast, err := svc.Predict(ctx, "Q-2411-1234")
	require.NoError(t, err)

	require.NotNil(t, forecast.Confidence)
	assert.InDelta(t, 1.0, *forecast.Confidence, 1e-9)
	assert.Equal(t, 12, forecast.DataPoints)
}

func fleetStore(t *testing.T) *memStore {
	t.Helper()
	ctx := context.Background()

	store := newMemStore(
		domain.Product{Code: "Q-SAFE", Name: "Washer", CurrentStock: 90, MinStock: 10, ReorderPoint: 20},
		domain.Product{Code: "Q-WARN", Name: "Nut", CurrentStock: 15, MinStock: 5, ReorderPoint: 20},
		domain.Product{Code: "Q-CRIT", Name: "Bolt", CurrentStock: 2, MinStock: 5, ReorderPoint: 20},
		domain.Product{Code: "Q-FRESH", Name: "Anchor", CurrentStock: 1, MinStock: 5, ReorderPoint: 20},
	)

	for _, seed := range []struct {
		code       string
		start, end int
	}{
		{"Q-SAFE", 120, 90},
		{"Q-WARN", 40, 15},
		{"Q-CRIT", 30, 2},
	} {
		first := record(seed.code, seed.start, testNow.AddDate(0, 0, -5))
		last := record(seed.code, seed.end, testNow)
		require.NoError(t, store.Append(ctx, &first))
		require.NoError(t, store.Append(ctx, &last))
	}

	// Q-FRESH has no history: nominally critical but never alertable.
	return store
}

func TestPredictAllOrdering(t *testing.T) {
	svc := newTestPredictionService(fleetStore(t))

	forecasts, err := svc.PredictAll(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, 4)

	codes := make([]string, 0, len(forecasts))
	for _, f := range forecasts {
		codes = append(codes, f.ProductCode)
	}

	// Critical products sort before warning before safe; within the critical
	// tier the fresh product has no day estimate and sorts last.
	assert.Equal(t, []string{"Q-CRIT", "Q-FRESH", "Q-WARN", "Q-SAFE"}, codes)
}

func TestLowStockAlertsExcludesInsufficientData(t *testing.T) {
	svc := newTestPredictionService(fleetStore(t))

	alerts, err := svc.LowStockAlerts(context.Background())
	require.NoError(t, err)

	codes := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		codes = append(codes, alert.ProductCode)
		assert.False(t, alert.InsufficientData)
		assert.NotEqual(t, domain.StatusSafe, alert.Status)
	}

	// Q-FRESH is below min stock but has too little history to be actionable.
	assert.Equal(t, []string{"Q-CRIT", "Q-WARN"}, codes)
}
