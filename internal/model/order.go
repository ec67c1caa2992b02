package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// orderTransitions lists the statuses an admin may move an order to.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentCreated  PaymentStatus = "created"
	PaymentAuthed   PaymentStatus = "authorized"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Order struct {
	BaseModel
	OrderNumber   string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User         `json:"user,omitempty"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`

	Currency     string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(12,4);default:1" json:"exchange_rate"`
	SubtotalINR  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal_inr"`
	DiscountINR  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_inr"`
	ShippingINR  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"shipping_inr"`
	TaxINR       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax_inr"`
	TotalINR     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_inr"`
	TotalDisplay decimal.Decimal `gorm:"type:decimal(12,3)" json:"total_display"`

	ShipName       string `gorm:"type:varchar(255)" json:"ship_name"`
	ShipPhone      string `gorm:"type:varchar(20)" json:"ship_phone"`
	ShipLine1      string `gorm:"type:varchar(255)" json:"ship_line1"`
	ShipLine2      string `gorm:"type:varchar(255)" json:"ship_line2"`
	ShipCity       string `gorm:"type:varchar(100)" json:"ship_city"`
	ShipState      string `gorm:"type:varchar(100)" json:"ship_state"`
	ShipPostalCode string `gorm:"type:varchar(20)" json:"ship_postal_code"`
	ShipCountry    string `gorm:"type:varchar(2)" json:"ship_country"`

	DiscountCodeID    *uuid.UUID `gorm:"type:uuid;index" json:"discount_code_id,omitempty"`
	PaymentProvider   string     `gorm:"type:varchar(20)" json:"payment_provider"`
	ShippingProvider  string     `gorm:"type:varchar(20)" json:"shipping_provider"`
	TrackingNumber    string     `gorm:"type:varchar(64)" json:"tracking_number,omitempty"`
	Courier           string     `gorm:"type:varchar(100)" json:"courier,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`

	Items    []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Payments []Payment   `json:"payments,omitempty"`
}

// TotalWeightGrams sums item weights for shipping.
func (o *Order) TotalWeightGrams() int {
	total := 0
	for _, it := range o.Items {
		total += it.WeightGrams * it.Quantity
	}
	return total
}

type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	VariantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"variant_id"`
	ProductName  string          `gorm:"type:varchar(255)" json:"product_name"`
	VariantName  string          `gorm:"type:varchar(255)" json:"variant_name"`
	SKU          string          `gorm:"type:varchar(50)" json:"sku"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPriceINR decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price_inr"`
	TotalINR     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_inr"`
	WeightGrams  int             `json:"weight_grams"`
}

type Payment struct {
	BaseModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Provider          string          `gorm:"type:varchar(20);not null" json:"provider"`
	ProviderOrderID   string          `gorm:"type:varchar(100);index" json:"provider_order_id"`
	ProviderPaymentID string          `gorm:"type:varchar(100)" json:"provider_payment_id,omitempty"`
	Signature         string          `gorm:"type:varchar(255)" json:"-"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"amount"`
	Currency          string          `gorm:"type:varchar(3);not null" json:"currency"`
	Status            PaymentStatus   `gorm:"type:varchar(20);not null;default:'created';index" json:"status"`
	RefundID          string          `gorm:"type:varchar(100)" json:"refund_id,omitempty"`
	RefundedAmount    decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"refunded_amount"`
	Metadata          JSONB           `gorm:"type:jsonb" json:"metadata,omitempty"`
}
