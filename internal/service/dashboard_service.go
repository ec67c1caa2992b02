package service

import (
	"time"

	"newhill-spices/internal/repository"
	"newhill-spices/pkg/clock"

	"github.com/shopspring/decimal"
)

// profitMargin is a flat estimate until cost prices are tracked.
const profitMargin = 25

type KPI struct {
	TotalSales      int64           `json:"totalSales"`
	Revenue         decimal.Decimal `json:"revenue"`
	ProfitMargin    int             `json:"profitMargin"`
	LowStockCount   int64           `json:"lowStockCount"`
	PendingPayments int64           `json:"pendingPayments"`
	NewOrders       int64           `json:"newOrders"`
	ActiveCustomers int64           `json:"activeCustomers"`
	ConversionRate  int64           `json:"conversionRate"`
}

type DashboardService interface {
	KPI() (*KPI, error)
	SalesSeries(days int) ([]repository.SalesPoint, error)
}

type dashboardService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	clock    clock.Clock
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository, c clock.Clock) DashboardService {
	return &dashboardService{orders: orders, products: products, clock: c}
}

// KPI summarises the current calendar month.
func (s *dashboardService) KPI() (*KPI, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats, err := s.orders.Stats(monthStart, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.CountLowStock()
	if err != nil {
		return nil, err
	}

	var conversion int64
	if stats.TotalOrders > 0 {
		conversion = decimal.NewFromInt(stats.PaidOrders * 100).
			Div(decimal.NewFromInt(stats.TotalOrders)).
			Round(0).IntPart()
	}
	return &KPI{
		TotalSales:      stats.TotalOrders,
		Revenue:         stats.Revenue,
		ProfitMargin:    profitMargin,
		LowStockCount:   lowStock,
		PendingPayments: stats.PendingPayments,
		NewOrders:       stats.TotalOrders,
		ActiveCustomers: stats.ActiveCustomers,
		ConversionRate:  conversion,
	}, nil
}

// SalesSeries returns one point per day, oldest first, with empty days filled in.
func (s *dashboardService) SalesSeries(days int) ([]repository.SalesPoint, error) {
	if days < 1 {
		days = 30
	}
	if days > 365 {
		days = 365
	}
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(days - 1))

	points, err := s.orders.SalesSeries(since)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]repository.SalesPoint, len(points))
	for _, p := range points {
		byDate[p.Date] = p
	}

	series := make([]repository.SalesPoint, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		p, ok := byDate[key]
		if !ok {
			p = repository.SalesPoint{Date: key, Revenue: decimal.Zero}
		}
		series = append(series, p)
	}
	return series, nil
}
