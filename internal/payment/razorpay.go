package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 15 * time.Second

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// Razorpay talks to the Razorpay REST API with basic auth.
type Razorpay struct {
	cfg RazorpayConfig
}

func NewRazorpay(cfg RazorpayConfig) *Razorpay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com/v1"
	}
	return &Razorpay{cfg: cfg}
}

func (r *Razorpay) Name() string      { return "razorpay" }
func (r *Razorpay) Regions() []string { return []string{"IN"} }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayRefund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (r *Razorpay) CreateOrder(ctx context.Context, p CreateOrderParams) (*CreateOrderResponse, error) {
	payload := fiber.Map{
		"amount":   toPaise(p.Amount),
		"currency": p.Currency,
		"receipt":  p.OrderID,
		"notes": fiber.Map{
			"customer_email": p.CustomerEmail,
			"customer_phone": p.CustomerPhone,
		},
	}

	var order razorpayOrder
	agent := fiber.Post(r.cfg.BaseURL + "/orders").
		BasicAuth(r.cfg.KeyID, r.cfg.KeySecret).
		Timeout(timeoutFrom(ctx)).
		JSON(payload)
	code, body, errs := agent.Struct(&order)
	if err := checkResponse(code, body, errs); err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	return &CreateOrderResponse{
		ProviderOrderID: order.ID,
		Metadata: map[string]interface{}{
			"keyId":    r.cfg.KeyID,
			"amount":   order.Amount,
			"currency": order.Currency,
		},
	}, nil
}

// VerifyPayment checks the checkout signature, HMAC-SHA256 of "order|payment" keyed by the secret.
func (r *Razorpay) VerifyPayment(_ context.Context, p VerifyPaymentParams) (bool, error) {
	if p.Signature == "" {
		return false, nil
	}
	return hmac.Equal([]byte(p.Signature), []byte(r.Sign(p.ProviderOrderID, p.ProviderPaymentID))), nil
}

// Sign produces the signature Razorpay checkout returns for a successful payment.
func (r *Razorpay) Sign(providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(r.cfg.KeySecret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (r *Razorpay) Refund(ctx context.Context, p RefundParams) (*RefundResponse, error) {
	reason := p.Reason
	if reason == "" {
		reason = "Customer requested refund"
	}
	payload := fiber.Map{
		"amount": toPaise(p.Amount),
		"notes":  fiber.Map{"reason": reason},
	}

	var refund razorpayRefund
	agent := fiber.Post(fmt.Sprintf("%s/payments/%s/refund", r.cfg.BaseURL, p.ProviderPaymentID)).
		BasicAuth(r.cfg.KeyID, r.cfg.KeySecret).
		Timeout(timeoutFrom(ctx)).
		JSON(payload)
	code, body, errs := agent.Struct(&refund)
	if err := checkResponse(code, body, errs); err != nil {
		return nil, fmt.Errorf("razorpay refund: %w", err)
	}

	status := RefundProcessing
	if refund.Status == "processed" {
		status = RefundCompleted
	}
	return &RefundResponse{
		RefundID: refund.ID,
		Status:   status,
		Amount:   decimal.New(refund.Amount, -2),
	}, nil
}

func timeoutFrom(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			return d
		}
	}
	return defaultTimeout
}

func checkResponse(code int, body []byte, errs []error) error {
	if code >= 200 && code < 300 && len(errs) == 0 {
		return nil
	}
	if code >= 300 {
		var apiErr razorpayError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("%w: %d %s", ErrGateway, code, apiErr.Error.Description)
		}
		return fmt.Errorf("%w: status %d", ErrGateway, code)
	}
	return fmt.Errorf("%w: %v", ErrGateway, errs[0])
}
