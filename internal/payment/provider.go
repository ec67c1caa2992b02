// Package payment adapts the regional payment gateways behind one interface.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
	RefundFailed     RefundStatus = "failed"
)

var ErrGateway = errors.New("payment gateway request failed")

type Provider interface {
	Name() string
	Regions() []string
	CreateOrder(ctx context.Context, p CreateOrderParams) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, p VerifyPaymentParams) (bool, error)
	Refund(ctx context.Context, p RefundParams) (*RefundResponse, error)
}

type CreateOrderParams struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	WebhookURL    string
}

type CreateOrderResponse struct {
	ProviderOrderID string                 `json:"provider_order_id"`
	ClientSecret    string                 `json:"client_secret,omitempty"`
	RedirectURL     string                 `json:"redirect_url,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

type VerifyPaymentParams struct {
	ProviderPaymentID string
	ProviderOrderID   string
	Signature         string
	Metadata          map[string]interface{}
}

type RefundParams struct {
	ProviderPaymentID string
	Amount            decimal.Decimal
	Reason            string
}

type RefundResponse struct {
	RefundID string          `json:"refund_id"`
	Status   RefundStatus    `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
}
