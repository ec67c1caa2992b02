package shipping

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"newhill-spices/pkg/clock"
)

type gccCountry struct {
	baseRate     int64
	deliveryDays int
	courier      string
	currency     string
}

var gccCountries = map[string]gccCountry{
	"QA": {25, 3, "Qatar Post Express", "QAR"},
	"AE": {30, 2, "Emirates Post", "AED"},
	"SA": {35, 4, "SMSA Express", "SAR"},
	"OM": {20, 5, "Oman Post Express", "OMR"},
}

var gccDefault = gccCountry{30, 5, "GCC Express", "AED"}

// GCCCountries are the Gulf destinations served by the GCC connector.
var GCCCountries = []string{"QA", "AE", "SA", "OM"}

func IsGCC(country string) bool {
	_, ok := gccCountries[strings.ToUpper(country)]
	return ok
}

func gccFor(country string) gccCountry {
	if c, ok := gccCountries[strings.ToUpper(country)]; ok {
		return c
	}
	return gccDefault
}

// GCC is the Gulf logistics connector. It has no live API yet, so bookings
// and tracking are simulated from the rate card.
type GCC struct {
	clock clock.Clock

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewGCC(c clock.Clock) *GCC {
	return &GCC{clock: c, rnd: rand.New(rand.NewSource(c.Now().UnixNano()))}
}

// Cost is base + base * ceil(weight/500) * 0.5, in the destination currency.
func (g *GCC) Cost(weightGrams int, country string) decimal.Decimal {
	base := decimal.NewFromInt(gccFor(country).baseRate)
	multiplier := decimal.NewFromInt(startedHalfKilos(weightGrams)).Mul(decimal.NewFromFloat(0.5))
	return base.Add(base.Mul(multiplier)).Round(2)
}

func (g *GCC) Calculate(weightGrams int, country, postalCode string) Estimate {
	c := gccFor(country)
	return Estimate{
		Cost:          g.Cost(weightGrams, country),
		Currency:      c.currency,
		EstimatedDays: c.deliveryDays,
		Courier:       c.courier,
	}
}

func (g *GCC) suffix() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(1000)
}

func (g *GCC) CreateShipment(_ context.Context, req ShipmentRequest) (*Shipment, error) {
	now := g.clock.Now()
	c := gccFor(req.Address.Country)
	eta := now.AddDate(0, 0, c.deliveryDays)
	return &Shipment{
		Provider:          ProviderGCC,
		TrackingNumber:    fmt.Sprintf("GCC%d%d", now.UnixMilli(), g.suffix()),
		Courier:           c.courier,
		EstimatedDelivery: &eta,
		Cost:              g.Cost(req.TotalWeightGrams, req.Address.Country),
		Currency:          c.currency,
	}, nil
}

func (g *GCC) Track(_ context.Context, trackingNumber string) (*Tracking, error) {
	now := g.clock.Now()
	eta := now.Add(48 * time.Hour)
	return &Tracking{
		TrackingNumber:    trackingNumber,
		Status:            "in_transit",
		Location:          "Dubai Hub",
		EstimatedDelivery: &eta,
		History: []TrackingEvent{
			{Date: now.Add(-24 * time.Hour), Status: "picked_up", Location: "Mumbai Origin"},
			{Date: now, Status: "in_transit", Location: "Dubai Hub"},
		},
	}, nil
}
