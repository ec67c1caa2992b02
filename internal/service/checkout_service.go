package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"newhill-spices/internal/currency"
	"newhill-spices/internal/model"
	"newhill-spices/internal/payment"
	"newhill-spices/internal/repository"
	"newhill-spices/internal/shipping"
	"newhill-spices/internal/ws"
	"newhill-spices/pkg/clock"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingGateway is the slice of shipping.Dispatcher the order flow needs.
type ShippingGateway interface {
	Quote(ctx context.Context, req shipping.QuoteRequest) (*shipping.Quote, error)
	Dispatch(ctx context.Context, req shipping.ShipmentRequest) (*shipping.Shipment, error)
	Track(ctx context.Context, provider, trackingNumber string) (*shipping.Tracking, error)
}

// PaymentGateways is the slice of payment.Registry the order flow needs.
type PaymentGateways interface {
	ForCountry(country string) payment.Provider
	ByName(name string) (payment.Provider, bool)
}

type CheckoutRequest struct {
	AddressID    uuid.UUID `json:"address_id" validate:"uuid_required"`
	Currency     string    `json:"currency" validate:"omitempty,currency"`
	DiscountCode string    `json:"discount_code" validate:"max=50"`
	Notes        string    `json:"notes" validate:"max=1000"`
}

type VerifyPaymentRequest struct {
	OrderID           uuid.UUID `json:"order_id" validate:"uuid_required"`
	ProviderPaymentID string    `json:"provider_payment_id" validate:"required,max=100"`
	ProviderOrderID   string    `json:"provider_order_id" validate:"max=100"`
	Signature         string    `json:"signature" validate:"max=255"`
}

type ShippingQuoteRequest struct {
	Country     string          `json:"country" validate:"required,iso3166_1_alpha2"`
	PostalCode  string          `json:"postal_code" validate:"max=20"`
	WeightGrams int             `json:"weight_grams" validate:"gt=0"`
	SubtotalINR decimal.Decimal `json:"subtotal_inr" validate:"gte=0"`
}

// PaymentInstructions tell the client how to complete payment with the gateway.
type PaymentInstructions struct {
	Provider        string                 `json:"provider"`
	ProviderOrderID string                 `json:"provider_order_id"`
	Amount          decimal.Decimal        `json:"amount"`
	Currency        string                 `json:"currency"`
	ClientSecret    string                 `json:"client_secret,omitempty"`
	RedirectURL     string                 `json:"redirect_url,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

type CheckoutResult struct {
	Order   *model.Order        `json:"order"`
	Payment PaymentInstructions `json:"payment"`
	Total   Price               `json:"total"`
}

type CheckoutService interface {
	QuoteShipping(ctx context.Context, req *ShippingQuoteRequest) (*shipping.Quote, error)
	Checkout(ctx context.Context, user *model.User, req *CheckoutRequest, meta RequestMeta) (*CheckoutResult, error)
	VerifyPayment(ctx context.Context, user *model.User, req *VerifyPaymentRequest, meta RequestMeta) (*model.Order, error)
}

type CheckoutDeps struct {
	Tx        repository.Transactor
	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Carts     repository.CartRepository
	Addresses repository.AddressRepository
	Discounts repository.DiscountRepository
	Rates     CurrencyService
	Settings  SettingService
	Audit     AuditService
	Payments  PaymentGateways
	Shipping  ShippingGateway
	Notifier  ws.Notifier
	Clock     clock.Clock
}

type checkoutService struct {
	CheckoutDeps
}

func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return &checkoutService{CheckoutDeps: deps}
}

func (s *checkoutService) QuoteShipping(ctx context.Context, req *ShippingQuoteRequest) (*shipping.Quote, error) {
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	return s.quote(ctx, req.Country, req.PostalCode, req.WeightGrams, req.SubtotalINR)
}

func (s *checkoutService) quote(ctx context.Context, country, postalCode string, weight int, subtotal decimal.Decimal) (*shipping.Quote, error) {
	if shipping.IsGCC(country) && !s.Settings.Enabled(SettingGCCShipping, true) {
		return nil, ErrShippingRegion
	}
	q, err := s.Shipping.Quote(ctx, shipping.QuoteRequest{
		Country:         country,
		PostalCode:      postalCode,
		WeightGrams:     weight,
		SubtotalINR:     subtotal,
		FreeShippingINR: s.Settings.DecimalValue(SettingFreeShippingINR, SettingFreeShippingField, shipping.DefaultFreeShippingINR),
	})
	if errors.Is(err, shipping.ErrUnsupportedCountry) {
		return nil, ErrShippingRegion
	}
	return q, err
}

// orderNumber returns NHS-YYYYMMDD-XXXXXX, retrying on the rare collision.
func (s *checkoutService) orderNumber() (string, error) {
	day := s.Clock.Now().Format("20060102")
	for i := 0; i < 5; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
		number := fmt.Sprintf("NHS-%s-%s", day, suffix)
		exists, err := s.Orders.OrderNumberExists(number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", errors.New("could not allocate an order number")
}

// gstIncluded is the tax already contained in a GST-inclusive amount.
func gstIncluded(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(rate).Div(hundred.Add(rate))
}

func (s *checkoutService) Checkout(ctx context.Context, user *model.User, req *CheckoutRequest, meta RequestMeta) (*CheckoutResult, error) {
	req.DiscountCode = strings.TrimSpace(req.DiscountCode)
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	cart, err := s.Carts.GetOrCreate(user.ID)
	if err != nil {
		return nil, err
	}
	lines := lo.Filter(cart.Items, func(it model.CartItem, _ int) bool { return it.Variant != nil && it.Variant.Product != nil })
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	addr, err := s.Addresses.FindForUser(req.AddressID, user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	country := strings.ToUpper(addr.Country)

	provider := s.Payments.ForCountry(country)
	if provider == nil {
		return nil, ErrGatewayDown
	}
	payCurrency := currency.CountryCurrency(country)
	if provider.Name() == payment.DefaultProvider {
		payCurrency = currency.Base
	}
	payRate, err := s.Rates.RateToINR(payCurrency)
	if err != nil {
		return nil, err
	}

	display := newPricer(s.Rates, req.Currency, user)
	preview := cartView(cart, display)
	quote, err := s.quote(ctx, country, addr.PostalCode, preview.WeightGrams, preview.SubtotalINR)
	if err != nil {
		return nil, err
	}

	number, err := s.orderNumber()
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNumber:      number,
		UserID:           user.ID,
		Status:           model.OrderPending,
		PaymentStatus:    model.PaymentPending,
		Currency:         display.code,
		ExchangeRate:     display.rate,
		ShippingINR:      quote.CostINR,
		ShipName:         addr.FullName(),
		ShipPhone:        lo.Ternary(addr.Phone != "", addr.Phone, user.Phone),
		ShipLine1:        addr.Line1,
		ShipLine2:        addr.Line2,
		ShipCity:         addr.City,
		ShipState:        addr.State,
		ShipPostalCode:   addr.PostalCode,
		ShipCountry:      country,
		PaymentProvider:  provider.Name(),
		ShippingProvider: quote.Provider,
		Courier:          quote.Courier,
		Notes:            req.Notes,
	}

	err = s.Tx.Transaction(func(tx *gorm.DB) error {
		ids := lo.Map(lines, func(it model.CartItem, _ int) uuid.UUID { return it.VariantID })
		locked, err := s.Products.LockVariants(tx, ids)
		if err != nil {
			return err
		}
		byID := lo.KeyBy(locked, func(v model.ProductVariant) uuid.UUID { return v.ID })

		subtotal, tax := decimal.Zero, decimal.Zero
		for _, line := range lines {
			v, ok := byID[line.VariantID]
			if !ok || !v.IsActive || !line.Variant.Product.IsActive {
				return invalid(fmt.Sprintf("%s is no longer available", line.Variant.Product.Name))
			}
			if v.StockQty < line.Quantity {
				return invalid(fmt.Sprintf("Insufficient stock for %s (%s)", line.Variant.Product.Name, v.Name))
			}
			unit := v.PriceFor(display.wholesale)
			total := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(total)
			if country == "IN" {
				tax = tax.Add(gstIncluded(total, line.Variant.Product.GSTRate))
			}
			order.Items = append(order.Items, model.OrderItem{
				VariantID:    v.ID,
				ProductName:  line.Variant.Product.Name,
				VariantName:  v.Name,
				SKU:          v.SKU,
				Quantity:     line.Quantity,
				UnitPriceINR: unit,
				TotalINR:     total,
				WeightGrams:  v.WeightGrams,
			})
			if err := s.Products.AdjustStock(tx, v.ID, -line.Quantity); err != nil {
				return err
			}
		}

		discount := decimal.Zero
		if req.DiscountCode != "" {
			code, err := s.Discounts.FindByCode(tx, req.DiscountCode, true)
			if err != nil {
				if repository.IsNotFound(err) {
					return ErrInvalidDiscount
				}
				return err
			}
			uses, err := s.Discounts.CountUserUsage(code.ID, user.ID)
			if err != nil {
				return err
			}
			if discount, err = evaluateDiscount(code, subtotal, uses, s.Clock.Now()); err != nil {
				return err
			}
			if err := s.Discounts.IncrementUsage(tx, code.ID); err != nil {
				return err
			}
			order.DiscountCodeID = &code.ID
		}

		order.SubtotalINR = subtotal
		order.DiscountINR = discount
		order.TaxINR = tax.Round(2)
		order.TotalINR = subtotal.Sub(discount).Add(order.ShippingINR).Round(2)
		order.TotalDisplay = display.price(order.TotalINR).Amount

		if err := s.Orders.Create(tx, order); err != nil {
			return err
		}
		return s.Carts.Clear(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	amount, err := currency.Convert(order.TotalINR, payRate, payCurrency)
	if err != nil {
		return nil, err
	}
	res, err := provider.CreateOrder(ctx, payment.CreateOrderParams{
		OrderID:       order.ID.String(),
		Amount:        amount,
		Currency:      payCurrency,
		CustomerEmail: user.Email,
		CustomerPhone: order.ShipPhone,
	})
	if err != nil {
		log.Printf("❌ %s order creation failed for %s: %v", provider.Name(), order.OrderNumber, err)
		s.abandon(order, cart.ID, lines)
		return nil, ErrGatewayDown
	}

	pay := &model.Payment{
		OrderID:         order.ID,
		Provider:        provider.Name(),
		ProviderOrderID: res.ProviderOrderID,
		Amount:          amount,
		Currency:        payCurrency,
		Status:          model.PaymentCreated,
		Metadata:        model.JSONB(res.Metadata),
	}
	if err := s.Orders.CreatePayment(nil, pay); err != nil {
		return nil, err
	}
	order.Payments = []model.Payment{*pay}

	meta.UserID = &user.ID
	meta.UserName = user.Name
	s.Audit.Record(meta.audit(model.ActionCreate, "order", order.ID.String(), nil, map[string]interface{}{
		"order_number": order.OrderNumber,
		"total_inr":    order.TotalINR,
		"items":        len(order.Items),
	}))
	s.Audit.Record(meta.audit(model.ActionCreate, "payment", pay.ID.String(), nil, map[string]interface{}{
		"order_id": order.ID,
		"provider": pay.Provider,
		"amount":   pay.Amount,
		"currency": pay.Currency,
	}))

	return &CheckoutResult{
		Order: order,
		Payment: PaymentInstructions{
			Provider:        pay.Provider,
			ProviderOrderID: res.ProviderOrderID,
			Amount:          amount,
			Currency:        payCurrency,
			ClientSecret:    res.ClientSecret,
			RedirectURL:     res.RedirectURL,
			Metadata:        res.Metadata,
		},
		Total: display.price(order.TotalINR),
	}, nil
}

// abandon cancels an order whose gateway order could not be created. Stock and
// cart lines are restored; discount usage is not.
func (s *checkoutService) abandon(order *model.Order, cartID uuid.UUID, lines []model.CartItem) {
	err := s.Tx.Transaction(func(tx *gorm.DB) error {
		for _, it := range order.Items {
			if err := s.Products.AdjustStock(tx, it.VariantID, it.Quantity); err != nil {
				return err
			}
		}
		return s.Orders.UpdateFields(tx, order.ID, map[string]interface{}{
			"status":         model.OrderCancelled,
			"payment_status": model.PaymentFailed,
		})
	})
	if err != nil {
		log.Printf("❌ Failed to cancel order %s after gateway error: %v", order.OrderNumber, err)
		return
	}
	for _, line := range lines {
		if _, err := s.Carts.AddItem(cartID, line.VariantID, line.Quantity); err != nil {
			log.Printf("⚠️  Could not restore cart line %s: %v", line.VariantID, err)
		}
	}
}

// checkPayable rejects orders whose payment can no longer be taken.
func checkPayable(order *model.Order) error {
	if order.Status == model.OrderCancelled || order.Status == model.OrderRefunded {
		return invalid(fmt.Sprintf("Cannot take payment for an order that is %s", order.Status))
	}
	switch order.PaymentStatus {
	case model.PaymentPending, model.PaymentCreated, model.PaymentFailed:
		return nil
	}
	return invalid(fmt.Sprintf("Cannot take payment for an order whose payment is %s", order.PaymentStatus))
}

func (s *checkoutService) VerifyPayment(ctx context.Context, user *model.User, req *VerifyPaymentRequest, meta RequestMeta) (*model.Order, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	order, err := s.Orders.FindForUser(req.OrderID, user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.PaymentStatus == model.PaymentPaid {
		return order, nil
	}
	if err := checkPayable(order); err != nil {
		return nil, err
	}

	pay, err := s.Orders.LatestPayment(order.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if req.ProviderOrderID != "" && req.ProviderOrderID != pay.ProviderOrderID {
		return nil, ErrPaymentFailed
	}
	provider, ok := s.Payments.ByName(pay.Provider)
	if !ok {
		return nil, fmt.Errorf("payment provider %q is not registered", pay.Provider)
	}

	verified, err := provider.VerifyPayment(ctx, payment.VerifyPaymentParams{
		ProviderPaymentID: req.ProviderPaymentID,
		ProviderOrderID:   pay.ProviderOrderID,
		Signature:         req.Signature,
	})
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{"status": pay.Status}
	pay.ProviderPaymentID = req.ProviderPaymentID
	pay.Signature = req.Signature
	fields := map[string]interface{}{}
	if verified {
		pay.Status = model.PaymentPaid
		fields["payment_status"] = model.PaymentPaid
		if order.Status == model.OrderPending {
			fields["status"] = model.OrderConfirmed
		}
	} else {
		pay.Status = model.PaymentFailed
		fields["payment_status"] = model.PaymentFailed
	}

	err = s.Tx.Transaction(func(tx *gorm.DB) error {
		locked, err := s.Orders.Lock(tx, order.ID)
		if err != nil {
			return err
		}
		if err := checkPayable(locked); err != nil {
			return err
		}
		if err := s.Orders.UpdatePayment(tx, pay); err != nil {
			return err
		}
		return s.Orders.UpdateFields(tx, order.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	meta.UserID = &user.ID
	meta.UserName = user.Name
	s.Audit.Record(meta.audit(model.ActionUpdate, "payment", pay.ID.String(), before, map[string]interface{}{
		"status":              pay.Status,
		"provider_payment_id": pay.ProviderPaymentID,
	}))
	if !verified {
		return nil, ErrPaymentFailed
	}

	order, err = s.Orders.FindForUser(order.ID, user.ID)
	if err != nil {
		return nil, err
	}
	s.Notifier.SendToUsers([]uuid.UUID{user.ID}, orderUpdate(order))
	return order, nil
}

func orderUpdate(o *model.Order) map[string]interface{} {
	return map[string]interface{}{
		"type":           "order_update",
		"order_id":       o.ID,
		"order_number":   o.OrderNumber,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
	}
}
