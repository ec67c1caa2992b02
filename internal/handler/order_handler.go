package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	discountService service.DiscountService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService, discountService service.DiscountService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService, orderService: orderService, discountService: discountService}
}

// Checkout turns the cart into an order and opens a payment with the regional gateway
// POST /api/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	result, err := h.checkoutService.Checkout(c.UserContext(), middleware.CurrentUser(c), &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// POST /api/payments/verify
func (h *OrderHandler) VerifyPayment(c *fiber.Ctx) error {
	var req service.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	order, err := h.checkoutService.VerifyPayment(c.UserContext(), middleware.CurrentUser(c), &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// POST /api/discounts/validate
func (h *OrderHandler) ValidateDiscount(c *fiber.Ctx) error {
	var req service.ValidateDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	result, err := h.discountService.Validate(middleware.UserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GET /api/orders
func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListForUser(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// GET /api/orders/:id
func (h *OrderHandler) GetMyOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "order")
	}
	order, err := h.orderService.GetForUser(middleware.UserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// GET /api/orders/:id/tracking
func (h *OrderHandler) GetTracking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "order")
	}
	tracking, err := h.orderService.Tracking(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tracking)
}

// GetOrders lists every order for the back office
// GET /api/admin/orders?status=&payment_status=&search=&page=&limit=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	page, err := h.orderService.List(service.OrderListParams{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Search:        c.Query("search"),
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 20),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// GET /api/admin/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "order")
	}
	order, err := h.orderService.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// PATCH /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "order")
	}
	var req service.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	order, err := h.orderService.UpdateStatus(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// POST /api/admin/orders/:id/dispatch
func (h *OrderHandler) Dispatch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "order")
	}
	order, err := h.orderService.Dispatch(c.UserContext(), id, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// POST /api/admin/orders/:id/refund
func (h *OrderHandler) Refund(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "order")
	}
	var req service.RefundRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c)
		}
	}
	order, err := h.orderService.Refund(c.UserContext(), id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}
