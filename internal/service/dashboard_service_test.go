package service

import (
	"testing"
	"time"

	"newhill-spices/internal/repository"
	"newhill-spices/pkg/clock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardKPI(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.stats = repository.OrderStats{TotalOrders: 3, PaidOrders: 2, Revenue: decimal.NewFromInt(4200), ActiveCustomers: 5, PendingPayments: 1}
	f := newStoreFixture(t)
	f.products.variants[f.variant.ID].StockQty = 2

	kpi, err := NewDashboardService(orders, f.products, clock.NewMockClock(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))).KPI()
	require.NoError(t, err)
	assert.Equal(t, int64(3), kpi.TotalSales)
	assert.Equal(t, int64(3), kpi.NewOrders)
	assert.Equal(t, int64(67), kpi.ConversionRate)
	assert.Equal(t, 25, kpi.ProfitMargin)
	assert.Equal(t, int64(1), kpi.LowStockCount)
	assert.Equal(t, int64(1), kpi.PendingPayments)
	assert.Equal(t, int64(5), kpi.ActiveCustomers)
	assert.True(t, kpi.Revenue.Equal(decimal.NewFromInt(4200)))
}

func TestDashboardKPIWithoutOrders(t *testing.T) {
	kpi, err := NewDashboardService(newFakeOrderRepo(), newFakeProductRepo(), clock.NewRealClock()).KPI()
	require.NoError(t, err)
	assert.Zero(t, kpi.ConversionRate)
}

func TestSalesSeriesFillsGaps(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.series = []repository.SalesPoint{
		{Date: "2024-06-13", Orders: 2, Revenue: decimal.NewFromInt(900)},
		{Date: "2024-06-15", Orders: 1, Revenue: decimal.NewFromInt(450)},
	}
	svc := NewDashboardService(orders, newFakeProductRepo(), clock.NewMockClock(time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)))

	series, err := svc.SalesSeries(5)
	require.NoError(t, err)
	require.Len(t, series, 5)
	assert.Equal(t, "2024-06-11", series[0].Date)
	assert.Equal(t, "2024-06-15", series[4].Date)
	assert.Equal(t, int64(2), series[2].Orders)
	assert.Equal(t, int64(0), series[3].Orders)
	assert.True(t, series[3].Revenue.IsZero())

	series, err = svc.SalesSeries(0)
	require.NoError(t, err)
	assert.Len(t, series, 30)

	series, err = svc.SalesSeries(1000)
	require.NoError(t, err)
	assert.Len(t, series, 365)
}
