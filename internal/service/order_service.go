package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/payment"
	"newhill-spices/internal/repository"
	"newhill-spices/internal/shipping"
	"newhill-spices/internal/ws"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderListParams struct {
	Status        string
	PaymentStatus string
	Search        string
	Page          int
	Limit         int
}

type OrderPage struct {
	Orders     []model.Order    `json:"orders"`
	Pagination model.Pagination `json:"pagination"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	Reason string           `json:"reason" validate:"max=500"`
}

type OrderService interface {
	ListForUser(userID uuid.UUID) ([]model.Order, error)
	GetForUser(userID, id uuid.UUID) (*model.Order, error)
	Tracking(ctx context.Context, userID, id uuid.UUID) (*shipping.Tracking, error)

	List(p OrderListParams) (*OrderPage, error)
	Get(id uuid.UUID) (*model.Order, error)
	UpdateStatus(id uuid.UUID, req *UpdateOrderStatusRequest, meta RequestMeta) (*model.Order, error)
	Dispatch(ctx context.Context, id uuid.UUID, meta RequestMeta) (*model.Order, error)
	Refund(ctx context.Context, id uuid.UUID, req *RefundRequest, meta RequestMeta) (*model.Order, error)
}

type orderService struct {
	tx       repository.Transactor
	orders   repository.OrderRepository
	products repository.ProductRepository
	payments PaymentGateways
	shipping ShippingGateway
	audit    AuditService
	notifier ws.Notifier
}

func NewOrderService(tx repository.Transactor, orders repository.OrderRepository, products repository.ProductRepository,
	payments PaymentGateways, ship ShippingGateway, audit AuditService, notifier ws.Notifier) OrderService {
	return &orderService{
		tx:       tx,
		orders:   orders,
		products: products,
		payments: payments,
		shipping: ship,
		audit:    audit,
		notifier: notifier,
	}
}

func (s *orderService) ListForUser(userID uuid.UUID) ([]model.Order, error) {
	return s.orders.ListByUser(userID)
}

func (s *orderService) GetForUser(userID, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindForUser(id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) Tracking(ctx context.Context, userID, id uuid.UUID) (*shipping.Tracking, error) {
	order, err := s.GetForUser(userID, id)
	if err != nil {
		return nil, err
	}
	if order.TrackingNumber == "" {
		return nil, ErrNotDispatched
	}
	t, err := s.shipping.Track(ctx, order.ShippingProvider, order.TrackingNumber)
	if err != nil {
		if errors.Is(err, shipping.ErrCarrier) || errors.Is(err, shipping.ErrNotConfigured) {
			return nil, unavailable("Tracking is temporarily unavailable")
		}
		return nil, err
	}
	return t, nil
}

func (s *orderService) List(p OrderListParams) (*OrderPage, error) {
	page, limit := model.PageParams(p.Page, p.Limit, 20, 100)
	orders, total, err := s.orders.List(repository.OrderFilter{
		Status:        p.Status,
		PaymentStatus: p.PaymentStatus,
		Search:        strings.TrimSpace(p.Search),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: orders, Pagination: model.NewPagination(page, limit, total)}, nil
}

func (s *orderService) Get(id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// restock returns the order's items to inventory inside tx.
func (s *orderService) restock(tx *gorm.DB, order *model.Order) error {
	for _, it := range order.Items {
		if err := s.products.AdjustStock(tx, it.VariantID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *orderService) lock(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.Lock(tx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the allowed transitions. Cancelling puts stock back.
func (s *orderService) UpdateStatus(id uuid.UUID, req *UpdateOrderStatusRequest, meta RequestMeta) (*model.Order, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	next := model.OrderStatus(req.Status)

	var prev model.OrderStatus
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		order, err := s.lock(tx, id)
		if err != nil {
			return err
		}
		prev = order.Status
		if !prev.CanTransitionTo(next) {
			return invalid(fmt.Sprintf("Cannot change order status from %s to %s", prev, next))
		}
		if next == model.OrderCancelled {
			if err := s.restock(tx, order); err != nil {
				return err
			}
		}
		return s.orders.UpdateFields(tx, id, map[string]interface{}{"status": next})
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(meta.audit(model.ActionUpdate, "order", id.String(),
		map[string]interface{}{"status": prev}, map[string]interface{}{"status": next}))
	return s.reloadAndNotify(id)
}

func (s *orderService) reloadAndNotify(id uuid.UUID) (*model.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.notifier.SendToUsers([]uuid.UUID{order.UserID}, orderUpdate(order))
	return order, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Dispatch books the shipment with the carrier for the order's country and marks it shipped.
// The order row stays locked while the carrier is called so a second dispatch waits and then
// sees the order already shipped.
func (s *orderService) Dispatch(ctx context.Context, id uuid.UUID, meta RequestMeta) (*model.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := checkDispatchable(order); err != nil {
		return nil, err
	}

	var (
		prev     model.OrderStatus
		shipment *shipping.Shipment
	)
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		locked, err := s.lock(tx, id)
		if err != nil {
			return err
		}
		if err := checkDispatchable(locked); err != nil {
			return err
		}
		prev = locked.Status

		shipment, err = s.shipping.Dispatch(ctx, shipmentRequest(order))
		if err != nil {
			switch {
			case errors.Is(err, shipping.ErrUnsupportedCountry):
				return ErrShippingRegion
			case errors.Is(err, shipping.ErrNotConfigured), errors.Is(err, shipping.ErrCarrier):
				log.Printf("❌ Dispatch of %s failed: %v", order.OrderNumber, err)
				return unavailable("Shipping provider is unavailable, please try again")
			}
			return err
		}
		return s.orders.UpdateFields(tx, id, map[string]interface{}{
			"status":             model.OrderShipped,
			"shipping_provider":  shipment.Provider,
			"tracking_number":    shipment.TrackingNumber,
			"courier":            shipment.Courier,
			"estimated_delivery": shipment.EstimatedDelivery,
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(meta.audit(model.ActionUpdate, "order", id.String(),
		map[string]interface{}{"status": prev},
		map[string]interface{}{"status": model.OrderShipped, "tracking_number": shipment.TrackingNumber, "courier": shipment.Courier}))
	return s.reloadAndNotify(id)
}

func checkDispatchable(order *model.Order) error {
	if order.Status != model.OrderConfirmed && order.Status != model.OrderProcessing {
		return invalid(fmt.Sprintf("Cannot dispatch an order that is %s", order.Status))
	}
	if order.PaymentStatus != model.PaymentPaid {
		return invalid("Order must be paid before dispatch")
	}
	return nil
}

func shipmentRequest(order *model.Order) shipping.ShipmentRequest {
	first, last := splitName(order.ShipName)
	req := shipping.ShipmentRequest{
		OrderNumber: order.OrderNumber,
		OrderDate:   order.CreatedAt,
		Address: shipping.Address{
			FirstName:  first,
			LastName:   last,
			Line1:      order.ShipLine1,
			Line2:      order.ShipLine2,
			City:       order.ShipCity,
			State:      order.ShipState,
			PostalCode: order.ShipPostalCode,
			Country:    order.ShipCountry,
			Phone:      order.ShipPhone,
		},
		TotalWeightGrams: order.TotalWeightGrams(),
		TotalValue:       order.TotalINR,
		Currency:         "INR",
		PaymentMethod:    "Prepaid",
	}
	if order.User != nil {
		req.Address.Email = order.User.Email
	}
	for _, it := range order.Items {
		req.Items = append(req.Items, shipping.Item{
			Name:        it.ProductName + " " + it.VariantName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			WeightGrams: it.WeightGrams,
			UnitPrice:   it.UnitPriceINR,
		})
	}
	return req
}

// Refund returns money through the gateway that took it. Amount is in the payment currency
// and defaults to whatever has not been refunded yet.
func (s *orderService) Refund(ctx context.Context, id uuid.UUID, req *RefundRequest, meta RequestMeta) (*model.Order, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != model.PaymentPaid {
		return nil, invalid("Only paid orders can be refunded")
	}
	pay, err := s.orders.LatestPayment(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	remaining := pay.Amount.Sub(pay.RefundedAmount)
	amount := remaining
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount.GreaterThan(remaining) {
		return nil, invalid(fmt.Sprintf("Refund cannot exceed %s %s", remaining.StringFixed(2), pay.Currency))
	}

	provider, ok := s.payments.ByName(pay.Provider)
	if !ok {
		return nil, fmt.Errorf("payment provider %q is not registered", pay.Provider)
	}
	res, err := provider.Refund(ctx, payment.RefundParams{
		ProviderPaymentID: pay.ProviderPaymentID,
		Amount:            amount,
		Reason:            req.Reason,
	})
	if err != nil {
		log.Printf("❌ Refund of %s failed: %v", order.OrderNumber, err)
		return nil, ErrGatewayDown
	}
	if res.Status == payment.RefundFailed {
		return nil, invalid("The payment provider rejected the refund")
	}

	restock := order.Status == model.OrderPending || order.Status == model.OrderConfirmed || order.Status == model.OrderProcessing
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		locked, err := s.lock(tx, id)
		if err != nil {
			return err
		}
		pay.Status = model.PaymentRefunded
		pay.RefundID = res.RefundID
		pay.RefundedAmount = pay.RefundedAmount.Add(res.Amount)
		if err := s.orders.UpdatePayment(tx, pay); err != nil {
			return err
		}
		if restock {
			if err := s.restock(tx, locked); err != nil {
				return err
			}
		}
		return s.orders.UpdateFields(tx, id, map[string]interface{}{
			"status":         model.OrderRefunded,
			"payment_status": model.PaymentRefunded,
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(meta.audit(model.ActionUpdate, "payment", pay.ID.String(),
		map[string]interface{}{"status": model.PaymentPaid},
		map[string]interface{}{"status": model.PaymentRefunded, "refund_id": res.RefundID, "amount": res.Amount, "reason": req.Reason}))
	return s.reloadAndNotify(id)
}
