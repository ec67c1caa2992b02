package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// GET /api/b2b/account
func (h *BusinessHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.businessService.Status(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(account)
}

// POST /api/b2b/account
func (h *BusinessHandler) Apply(c *fiber.Ctx) error {
	var req service.BusinessApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	account, err := h.businessService.Apply(middleware.CurrentUser(c), &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// GET /api/admin/b2b?approved=true|false
func (h *BusinessHandler) GetAccounts(c *fiber.Ctx) error {
	var approved *bool
	if raw := c.Query("approved"); raw != "" {
		v := raw == "true"
		approved = &v
	}
	accounts, err := h.businessService.List(approved)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(accounts)
}

// POST /api/admin/b2b/:id/approve
func (h *BusinessHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "business account")
	}
	var req service.ApproveBusinessRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c)
		}
	}
	account, err := h.businessService.Approve(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(account)
}

// POST /api/admin/b2b/:id/reject
func (h *BusinessHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "business account")
	}
	var req service.RejectBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	account, err := h.businessService.Reject(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(account)
}
