package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newhill-spices/internal/model"
	"newhill-spices/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *storeFixture) orderService() OrderService {
	return NewOrderService(f.tx, f.orders, f.products, f.registry, f.shipping, f.audit, f.notifier)
}

// paidOrder places an order and verifies its payment.
func (f *storeFixture) paidOrder(t *testing.T, country string) *model.Order {
	t.Helper()
	order := f.placeOrder(t, country)
	paymentID := "pay_1"
	if country == "QA" {
		paymentID = "dibsy_pay_1"
	}
	paid, err := f.checkout().VerifyPayment(context.Background(), f.user, &VerifyPaymentRequest{OrderID: order.ID, ProviderPaymentID: paymentID}, RequestMeta{})
	require.NoError(t, err)
	return paid
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newStoreFixture(t)
	order := f.placeOrder(t, "IN")
	svc := f.orderService()

	_, err := svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "shipped"}, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "Cannot change order status from pending to shipped", err.Error())

	_, err = svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "lost"}, RequestMeta{})
	var verr *validator.ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "confirmed"}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, got.Status)
	assert.True(t, f.audit.has("order", model.ActionUpdate))
	require.NotEmpty(t, f.notifier.users)
	last := f.notifier.users[len(f.notifier.users)-1]
	assert.Equal(t, "order_update", last.payload.(map[string]interface{})["type"])
}

func TestCancelOrderRestocks(t *testing.T) {
	f := newStoreFixture(t)
	order := f.placeOrder(t, "IN")
	assert.Equal(t, 8, f.products.variants[f.variant.ID].StockQty)

	got, err := f.orderService().UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "cancelled"}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)
	assert.Equal(t, 10, f.products.variants[f.variant.ID].StockQty)

	_, err = f.orderService().UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "confirmed"}, RequestMeta{})
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestDispatchGulfOrder(t *testing.T) {
	f := newStoreFixture(t)
	order := f.paidOrder(t, "QA")
	svc := f.orderService()

	_, err := svc.Tracking(context.Background(), f.user.ID, order.ID)
	assert.Equal(t, ErrNotDispatched, err)

	got, err := svc.Dispatch(context.Background(), order.ID, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, got.Status)
	assert.True(t, strings.HasPrefix(got.TrackingNumber, "GCC"))
	assert.Equal(t, "Qatar Post Express", got.Courier)
	assert.NotNil(t, got.EstimatedDelivery)

	tracking, err := svc.Tracking(context.Background(), f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, got.TrackingNumber, tracking.TrackingNumber)
	assert.Equal(t, "in_transit", tracking.Status)

	_, err = svc.Dispatch(context.Background(), order.ID, RequestMeta{})
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestDispatchRequiresPayment(t *testing.T) {
	f := newStoreFixture(t)
	order := f.placeOrder(t, "QA")
	svc := f.orderService()
	_, err := svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "confirmed"}, RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Dispatch(context.Background(), order.ID, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "Order must be paid before dispatch", err.Error())
}

func TestDispatchIndiaWithoutCarrierCredentials(t *testing.T) {
	f := newStoreFixture(t)
	order := f.paidOrder(t, "IN")

	_, err := f.orderService().Dispatch(context.Background(), order.ID, RequestMeta{})
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.Equal(t, model.OrderConfirmed, f.orders.orders[order.ID].Status)
}

func TestRefundOrder(t *testing.T) {
	f := newStoreFixture(t)
	order := f.paidOrder(t, "IN")
	svc := f.orderService()

	tooMuch := decimal.NewFromInt(5000)
	_, err := svc.Refund(context.Background(), order.ID, &RefundRequest{Amount: &tooMuch}, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "Refund cannot exceed 1000.00 INR", err.Error())

	got, err := svc.Refund(context.Background(), order.ID, &RefundRequest{Reason: "damaged in transit"}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderRefunded, got.Status)
	assert.Equal(t, model.PaymentRefunded, got.PaymentStatus)
	assert.Equal(t, 10, f.products.variants[f.variant.ID].StockQty)

	require.Len(t, f.razorpay.refunds, 1)
	assert.Equal(t, "pay_1", f.razorpay.refunds[0].ProviderPaymentID)
	assert.True(t, f.razorpay.refunds[0].Amount.Equal(decimal.NewFromInt(1000)))
	pay := f.orders.payments[0]
	assert.Equal(t, "rfnd_stub_1", pay.RefundID)
	assert.True(t, pay.RefundedAmount.Equal(decimal.NewFromInt(1000)))

	_, err = svc.Refund(context.Background(), order.ID, &RefundRequest{}, RequestMeta{})
	assert.Equal(t, "Only paid orders can be refunded", err.Error())
}

func TestVerifyPaymentAfterRefund(t *testing.T) {
	f := newStoreFixture(t)
	order := f.paidOrder(t, "QA")
	svc := f.orderService()

	_, err := svc.Refund(context.Background(), order.ID, &RefundRequest{}, RequestMeta{})
	require.NoError(t, err)

	_, err = f.checkout().VerifyPayment(context.Background(), f.user, &VerifyPaymentRequest{OrderID: order.ID, ProviderPaymentID: "dibsy_pay_2"}, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Equal(t, "Cannot take payment for an order that is refunded", err.Error())
	assert.Equal(t, model.OrderRefunded, f.orders.orders[order.ID].Status)
	assert.Equal(t, model.PaymentRefunded, f.orders.orders[order.ID].PaymentStatus)

	_, err = svc.Refund(context.Background(), order.ID, &RefundRequest{}, RequestMeta{})
	assert.Equal(t, "Only paid orders can be refunded", err.Error())
}

func TestVerifyPaymentCancelledOrder(t *testing.T) {
	f := newStoreFixture(t)
	order := f.placeOrder(t, "IN")
	_, err := f.orderService().UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: "cancelled"}, RequestMeta{})
	require.NoError(t, err)

	_, err = f.checkout().VerifyPayment(context.Background(), f.user, &VerifyPaymentRequest{OrderID: order.ID, ProviderPaymentID: "pay_1"}, RequestMeta{})
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Equal(t, model.PaymentPending, f.orders.orders[order.ID].PaymentStatus)
}

func TestVerifyPaymentRechecksLockedOrder(t *testing.T) {
	f := newStoreFixture(t)
	order := f.placeOrder(t, "IN")
	f.orders.onLock = func(o *model.Order) { o.Status = model.OrderCancelled }

	_, err := f.checkout().VerifyPayment(context.Background(), f.user, &VerifyPaymentRequest{OrderID: order.ID, ProviderPaymentID: "pay_1"}, RequestMeta{})
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Equal(t, model.PaymentPending, f.orders.orders[order.ID].PaymentStatus)
}

func TestDispatchRechecksLockedOrder(t *testing.T) {
	f := newStoreFixture(t)
	order := f.paidOrder(t, "QA")
	// another admin shipped the order between our read and our lock
	f.orders.onLock = func(o *model.Order) {
		o.Status = model.OrderShipped
		o.TrackingNumber = "GCC-FIRST"
	}
	audited := len(f.audit.entries)

	_, err := f.orderService().Dispatch(context.Background(), order.ID, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "Cannot dispatch an order that is shipped", err.Error())
	assert.Equal(t, "GCC-FIRST", f.orders.orders[order.ID].TrackingNumber)
	assert.Len(t, f.audit.entries, audited)
}

func TestRefundGatewayError(t *testing.T) {
	f := newStoreFixture(t)
	order := f.paidOrder(t, "IN")
	f.razorpay.refundErr = errors.New("timeout")

	_, err := f.orderService().Refund(context.Background(), order.ID, &RefundRequest{}, RequestMeta{})
	assert.Equal(t, ErrGatewayDown, err)
	assert.Equal(t, model.PaymentPaid, f.orders.orders[order.ID].PaymentStatus)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Asha  K Menon")
	assert.Equal(t, "Asha", first)
	assert.Equal(t, "K Menon", last)

	first, last = splitName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
