package shipping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newhill-spices/pkg/clock"
)

type staticRates map[string]decimal.Decimal

func (s staticRates) RateToINR(code string) (decimal.Decimal, error) {
	if r, ok := s[code]; ok {
		return r, nil
	}
	return decimal.Zero, errors.New("rate not found")
}

func TestFlatDomesticINR(t *testing.T) {
	assert.True(t, FlatDomesticINR(0).Equal(decimal.NewFromInt(60)))
	assert.True(t, FlatDomesticINR(500).Equal(decimal.NewFromInt(90)))
	assert.True(t, FlatDomesticINR(501).Equal(decimal.NewFromInt(120)))
}

func TestDispatcherQuote(t *testing.T) {
	c := clock.NewRealClock()
	d := NewDispatcher(NewShiprocket(ShiprocketConfig{}, c), NewGCC(c), staticRates{"QAR": decimal.RequireFromString("20.25")})
	ctx := context.Background()

	t.Run("domestic flat rate when shiprocket is not configured", func(t *testing.T) {
		q, err := d.Quote(ctx, QuoteRequest{Country: "IN", PostalCode: "560001", WeightGrams: 700, SubtotalINR: decimal.NewFromInt(500)})
		require.NoError(t, err)
		assert.Equal(t, ProviderShiprocket, q.Provider)
		assert.True(t, q.CostINR.Equal(decimal.NewFromInt(120)))
		assert.False(t, q.Free)
	})

	t.Run("domestic free above threshold", func(t *testing.T) {
		q, err := d.Quote(ctx, QuoteRequest{Country: "in", WeightGrams: 700, SubtotalINR: decimal.NewFromInt(1200)})
		require.NoError(t, err)
		assert.True(t, q.Free)
		assert.True(t, q.CostINR.IsZero())
	})

	t.Run("domestic free at exactly the threshold", func(t *testing.T) {
		q, err := d.Quote(ctx, QuoteRequest{Country: "IN", WeightGrams: 400, SubtotalINR: decimal.NewFromInt(999)})
		require.NoError(t, err)
		assert.True(t, q.Free)
		assert.True(t, q.CostINR.IsZero())

		q, err = d.Quote(ctx, QuoteRequest{Country: "IN", WeightGrams: 400, SubtotalINR: decimal.RequireFromString("998.99")})
		require.NoError(t, err)
		assert.False(t, q.Free)
		assert.True(t, q.CostINR.Equal(decimal.NewFromInt(90)))
	})

	t.Run("threshold override", func(t *testing.T) {
		q, err := d.Quote(ctx, QuoteRequest{Country: "IN", SubtotalINR: decimal.NewFromInt(1200), FreeShippingINR: decimal.NewFromInt(2000)})
		require.NoError(t, err)
		assert.False(t, q.Free)
	})

	t.Run("gulf converts to INR with stored rate", func(t *testing.T) {
		q, err := d.Quote(ctx, QuoteRequest{Country: "QA", WeightGrams: 500})
		require.NoError(t, err)
		assert.Equal(t, ProviderGCC, q.Provider)
		assert.Equal(t, "QAR", q.Currency)
		assert.True(t, q.Cost.Equal(decimal.RequireFromString("37.5")))
		assert.True(t, q.CostINR.Equal(decimal.RequireFromString("759.38")), q.CostINR.String())
	})

	t.Run("gulf falls back to reference rate", func(t *testing.T) {
		q, err := d.Quote(ctx, QuoteRequest{Country: "OM", WeightGrams: 0})
		require.NoError(t, err)
		assert.True(t, q.CostINR.Equal(decimal.NewFromInt(4300)))
	})

	t.Run("unsupported country", func(t *testing.T) {
		_, err := d.Quote(ctx, QuoteRequest{Country: "US"})
		assert.ErrorIs(t, err, ErrUnsupportedCountry)
	})
}

func TestDispatcherDispatch(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	d := NewDispatcher(NewShiprocket(ShiprocketConfig{}, c), NewGCC(c), nil)
	ctx := context.Background()

	s, err := d.Dispatch(ctx, ShipmentRequest{Address: Address{Country: "AE"}, TotalWeightGrams: 400})
	require.NoError(t, err)
	assert.Equal(t, ProviderGCC, s.Provider)

	_, err = d.Dispatch(ctx, ShipmentRequest{Address: Address{Country: "IN"}})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = d.Dispatch(ctx, ShipmentRequest{Address: Address{Country: "DE"}})
	assert.ErrorIs(t, err, ErrUnsupportedCountry)

	tr, err := d.Track(ctx, ProviderGCC, s.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, s.TrackingNumber, tr.TrackingNumber)
}
