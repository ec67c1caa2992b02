package shipping

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"newhill-spices/internal/currency"
)

var (
	DefaultFreeShippingINR = decimal.NewFromInt(999)
	domesticBaseINR        = decimal.NewFromInt(60)
	domesticStepINR        = decimal.NewFromInt(30)
)

// RateSource resolves how many INR one unit of a currency is worth.
type RateSource interface {
	RateToINR(code string) (decimal.Decimal, error)
}

type QuoteRequest struct {
	Country         string          `json:"country" validate:"required,iso3166_1_alpha2"`
	PostalCode      string          `json:"postal_code"`
	WeightGrams     int             `json:"weight_grams" validate:"gte=0"`
	SubtotalINR     decimal.Decimal `json:"subtotal_inr"`
	FreeShippingINR decimal.Decimal `json:"-"`
}

type Quote struct {
	Provider      string          `json:"provider"`
	Courier       string          `json:"courier,omitempty"`
	CostINR       decimal.Decimal `json:"cost_inr"`
	Cost          decimal.Decimal `json:"cost"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimated_days"`
	Free          bool            `json:"free"`
}

// Dispatcher routes India to Shiprocket and the Gulf to the GCC connector.
type Dispatcher struct {
	shiprocket *Shiprocket
	gcc        *GCC
	rates      RateSource
}

func NewDispatcher(sr *Shiprocket, gcc *GCC, rates RateSource) *Dispatcher {
	return &Dispatcher{shiprocket: sr, gcc: gcc, rates: rates}
}

func (d *Dispatcher) ProviderFor(country string) (string, error) {
	c := strings.ToUpper(country)
	switch {
	case c == "IN":
		return ProviderShiprocket, nil
	case IsGCC(c):
		return ProviderGCC, nil
	default:
		return "", ErrUnsupportedCountry
	}
}

func (d *Dispatcher) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	provider, err := d.ProviderFor(req.Country)
	if err != nil {
		return nil, err
	}
	if provider == ProviderGCC {
		return d.gulfQuote(req)
	}
	return d.domesticQuote(ctx, req), nil
}

func (d *Dispatcher) domesticQuote(ctx context.Context, req QuoteRequest) *Quote {
	threshold := req.FreeShippingINR
	if !threshold.IsPositive() {
		threshold = DefaultFreeShippingINR
	}
	if req.SubtotalINR.GreaterThanOrEqual(threshold) {
		return &Quote{Provider: ProviderShiprocket, Currency: currency.Base, EstimatedDays: 5, Free: true}
	}

	if d.shiprocket != nil && d.shiprocket.Configured() && req.PostalCode != "" {
		est, err := d.shiprocket.Serviceability(ctx, d.shiprocket.PickupPostcode(), req.PostalCode, req.WeightGrams, decimal.Zero)
		if err == nil {
			return &Quote{
				Provider:      ProviderShiprocket,
				Courier:       est.Courier,
				CostINR:       est.Cost,
				Cost:          est.Cost,
				Currency:      currency.Base,
				EstimatedDays: est.EstimatedDays,
			}
		}
		log.Printf("⚠️  Shiprocket serviceability failed, using flat rate: %v", err)
	}

	cost := FlatDomesticINR(req.WeightGrams)
	return &Quote{Provider: ProviderShiprocket, CostINR: cost, Cost: cost, Currency: currency.Base, EstimatedDays: 5}
}

func (d *Dispatcher) gulfQuote(req QuoteRequest) (*Quote, error) {
	est := d.gcc.Calculate(req.WeightGrams, strings.ToUpper(req.Country), req.PostalCode)
	rate, err := d.rateToINR(est.Currency)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Provider:      ProviderGCC,
		Courier:       est.Courier,
		CostINR:       est.Cost.Mul(rate).Round(2),
		Cost:          est.Cost,
		Currency:      est.Currency,
		EstimatedDays: est.EstimatedDays,
	}, nil
}

func (d *Dispatcher) rateToINR(code string) (decimal.Decimal, error) {
	if d.rates != nil {
		rate, err := d.rates.RateToINR(code)
		if err == nil {
			return rate, nil
		}
		log.Printf("⚠️  No stored %s rate, using reference rate: %v", code, err)
	}
	if rate, ok := currency.MockRates[code]; ok {
		return rate, nil
	}
	return decimal.Zero, currency.ErrInvalidRate
}

// FlatDomesticINR is the fallback domestic tariff: ₹60 plus ₹30 per started 500 g.
func FlatDomesticINR(weightGrams int) decimal.Decimal {
	return domesticBaseINR.Add(domesticStepINR.Mul(decimal.NewFromInt(startedHalfKilos(weightGrams))))
}

func (d *Dispatcher) Dispatch(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	provider, err := d.ProviderFor(req.Address.Country)
	if err != nil {
		return nil, err
	}
	if provider == ProviderGCC {
		return d.gcc.CreateShipment(ctx, req)
	}
	if d.shiprocket == nil {
		return nil, ErrNotConfigured
	}
	return d.shiprocket.CreateShipment(ctx, req)
}

func (d *Dispatcher) Track(ctx context.Context, provider, trackingNumber string) (*Tracking, error) {
	switch provider {
	case ProviderGCC:
		return d.gcc.Track(ctx, trackingNumber)
	case ProviderShiprocket:
		if d.shiprocket == nil {
			return nil, ErrNotConfigured
		}
		return d.shiprocket.Track(ctx, trackingNumber)
	default:
		return nil, ErrUnsupportedCountry
	}
}
