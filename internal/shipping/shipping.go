// Package shipping quotes and books parcels with the domestic and Gulf carriers.
package shipping

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedCountry = errors.New("shipping is not available for this country")
	ErrCarrier            = errors.New("carrier request failed")
	ErrNotConfigured      = errors.New("carrier credentials are not configured")
)

const (
	ProviderShiprocket = "shiprocket"
	ProviderGCC        = "gcc"
)

type Address struct {
	FirstName  string
	LastName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
	Email      string
}

type Item struct {
	Name        string
	SKU         string
	Quantity    int
	WeightGrams int
	UnitPrice   decimal.Decimal
}

type ShipmentRequest struct {
	OrderNumber      string
	OrderDate        time.Time
	Address          Address
	Items            []Item
	TotalWeightGrams int
	TotalValue       decimal.Decimal
	Currency         string
	PaymentMethod    string // Prepaid or COD
}

type Shipment struct {
	Provider          string          `json:"provider"`
	TrackingNumber    string          `json:"tracking_number"`
	Courier           string          `json:"courier"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	Cost              decimal.Decimal `json:"cost"`
	Currency          string          `json:"currency"`
	ProviderOrderID   string          `json:"provider_order_id,omitempty"`
	ShipmentID        string          `json:"shipment_id,omitempty"`
}

type TrackingEvent struct {
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Location string    `json:"location"`
}

type Tracking struct {
	TrackingNumber    string          `json:"tracking_number"`
	Status            string          `json:"status"`
	Location          string          `json:"location,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	History           []TrackingEvent `json:"history"`
}

// Estimate is a carrier's price for a parcel in the carrier's currency.
type Estimate struct {
	Cost          decimal.Decimal `json:"cost"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimated_days"`
	Courier       string          `json:"courier,omitempty"`
}

// startedHalfKilos counts each begun 500 g step.
func startedHalfKilos(weightGrams int) int64 {
	if weightGrams <= 0 {
		return 0
	}
	return int64((weightGrams + 499) / 500)
}
