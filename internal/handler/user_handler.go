package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	accountService  service.AccountService
	customerService service.CustomerService
}

func NewUserHandler(accountService service.AccountService, customerService service.CustomerService) *UserHandler {
	return &UserHandler{accountService: accountService, customerService: customerService}
}

// GET /api/user/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.accountService.Profile(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

// PATCH /api/user/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	profile, err := h.accountService.UpdateProfile(middleware.UserID(c), &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// GET /api/user/preferences
func (h *UserHandler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.accountService.Preferences(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(prefs)
}

// PATCH /api/user/preferences
func (h *UserHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req service.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	prefs, err := h.accountService.UpdatePreferences(middleware.UserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(prefs)
}

// GetCustomers lists customers with their order totals
// GET /api/admin/customers?search=&page=&limit=
func (h *UserHandler) GetCustomers(c *fiber.Ctx) error {
	page, err := h.customerService.List(service.CustomerListParams{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// UpdateCustomer toggles the account and replaces its roles
// PATCH /api/admin/customers/:id
func (h *UserHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "user")
	}
	var req service.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	user, err := h.customerService.Update(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Customer updated successfully",
		"data":    user,
	})
}
