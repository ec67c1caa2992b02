package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"newhill-spices/pkg/clock"
)

// mockGateway stands in for a gateway without a live integration. It
// fabricates ids from the current time and reports every call as accepted.
type mockGateway struct {
	name     string
	prefix   string
	regions  []string
	clock    clock.Clock
	decorate func(id string, p CreateOrderParams, res *CreateOrderResponse)
}

func (m *mockGateway) Name() string      { return m.name }
func (m *mockGateway) Regions() []string { return m.regions }

func (m *mockGateway) CreateOrder(_ context.Context, p CreateOrderParams) (*CreateOrderResponse, error) {
	id := fmt.Sprintf("%s_%d_%s", m.prefix, m.clock.Now().UnixMilli(), randomSuffix())
	res := &CreateOrderResponse{
		ProviderOrderID: id,
		Metadata: map[string]interface{}{
			"amount":   p.Amount.InexactFloat64(),
			"currency": p.Currency,
		},
	}
	if m.decorate != nil {
		m.decorate(id, p, res)
	}
	return res, nil
}

func (m *mockGateway) VerifyPayment(_ context.Context, p VerifyPaymentParams) (bool, error) {
	return strings.HasPrefix(p.ProviderPaymentID, m.prefix+"_pay_"), nil
}

func (m *mockGateway) Refund(_ context.Context, p RefundParams) (*RefundResponse, error) {
	return &RefundResponse{
		RefundID: fmt.Sprintf("%s_rfnd_%d", m.prefix, m.clock.Now().UnixMilli()),
		Status:   RefundProcessing,
		Amount:   p.Amount,
	}, nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// NewDibsy serves Qatar.
func NewDibsy(c clock.Clock) Provider {
	return &mockGateway{
		name: "dibsy", prefix: "dibsy", regions: []string{"QA"}, clock: c,
		decorate: func(id string, _ CreateOrderParams, res *CreateOrderResponse) {
			res.RedirectURL = "https://sandbox.dibsy.com/checkout/" + id
		},
	}
}

// NewTelr serves the UAE.
func NewTelr(c clock.Clock, storeID string) Provider {
	return &mockGateway{
		name: "telr", prefix: "telr", regions: []string{"AE"}, clock: c,
		decorate: func(id string, _ CreateOrderParams, res *CreateOrderResponse) {
			res.RedirectURL = "https://secure.telr.com/gateway/" + id
			res.Metadata["storeId"] = storeID
		},
	}
}

// NewMoyasar serves Saudi Arabia. Amounts are reported in halalas.
func NewMoyasar(c clock.Clock, publishableKey string) Provider {
	return &mockGateway{
		name: "moyasar", prefix: "moya", regions: []string{"SA"}, clock: c,
		decorate: func(id string, p CreateOrderParams, res *CreateOrderResponse) {
			res.ClientSecret = "moya_cs_" + id
			res.Metadata["publishableKey"] = publishableKey
			res.Metadata["amount"] = p.Amount.Mul(decimal.NewFromInt(100)).InexactFloat64()
		},
	}
}

// NewOmanNet serves Oman.
func NewOmanNet(c clock.Clock, merchantID string) Provider {
	return &mockGateway{
		name: "omannet", prefix: "oman", regions: []string{"OM"}, clock: c,
		decorate: func(id string, _ CreateOrderParams, res *CreateOrderResponse) {
			res.RedirectURL = "https://payments.omannet.om/gateway/" + id
			res.Metadata["merchantId"] = merchantID
		},
	}
}
