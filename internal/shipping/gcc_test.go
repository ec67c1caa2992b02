package shipping

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newhill-spices/pkg/clock"
)

func TestGCCCost(t *testing.T) {
	g := NewGCC(clock.NewRealClock())
	tests := []struct {
		weight  int
		country string
		want    string
	}{
		{500, "QA", "37.5"},
		{501, "QA", "50"},
		{1200, "AE", "75"},
		{250, "SA", "52.5"},
		{0, "OM", "20"},
		{1000, "KW", "60"},
	}
	for _, tt := range tests {
		got := g.Cost(tt.weight, tt.country)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%d g to %s: got %s", tt.weight, tt.country, got)
	}
}

func TestGCCCalculate(t *testing.T) {
	g := NewGCC(clock.NewRealClock())

	est := g.Calculate(750, "AE", "00000")
	assert.Equal(t, "AED", est.Currency)
	assert.Equal(t, 2, est.EstimatedDays)
	assert.Equal(t, "Emirates Post", est.Courier)

	est = g.Calculate(750, "BH", "")
	assert.Equal(t, "AED", est.Currency)
	assert.Equal(t, 5, est.EstimatedDays)
	assert.Equal(t, "GCC Express", est.Courier)
}

func TestGCCCreateShipment(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	g := NewGCC(clock.NewMockClock(now))

	s, err := g.CreateShipment(context.Background(), ShipmentRequest{
		Address:          Address{Country: "SA"},
		TotalWeightGrams: 900,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^GCC1717236000000\d{1,3}$`), s.TrackingNumber)
	assert.Equal(t, "SMSA Express", s.Courier)
	assert.Equal(t, "SAR", s.Currency)
	assert.True(t, s.Cost.Equal(decimal.NewFromInt(70)))
	require.NotNil(t, s.EstimatedDelivery)
	assert.Equal(t, now.AddDate(0, 0, 4), *s.EstimatedDelivery)
}

func TestGCCCreateShipmentConcurrent(t *testing.T) {
	g := NewGCC(clock.NewRealClock())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	numbers := make([]string, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := g.CreateShipment(context.Background(), ShipmentRequest{Address: Address{Country: "QA"}, TotalWeightGrams: 500})
			errs[i] = err
			if err == nil {
				numbers[i] = s.TrackingNumber
			}
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Regexp(t, `^GCC\d+$`, numbers[i])
	}
}

func TestGCCTrack(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	g := NewGCC(clock.NewMockClock(now))

	tr, err := g.Track(context.Background(), "GCC123")
	require.NoError(t, err)
	assert.Equal(t, "in_transit", tr.Status)
	assert.Equal(t, "Dubai Hub", tr.Location)
	require.Len(t, tr.History, 2)
	assert.Equal(t, "picked_up", tr.History[0].Status)
	assert.Equal(t, now.Add(-24*time.Hour), tr.History[0].Date)
}
