package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddressHandler struct {
	addressService service.AddressService
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// GET /api/addresses
func (h *AddressHandler) GetAddresses(c *fiber.Ctx) error {
	addresses, err := h.addressService.List(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(addresses)
}

// POST /api/addresses
func (h *AddressHandler) CreateAddress(c *fiber.Ctx) error {
	var req service.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	addr, err := h.addressService.Create(middleware.UserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(addr)
}

// PUT /api/addresses/:id
func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "address")
	}
	var req service.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	addr, err := h.addressService.Update(middleware.UserID(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(addr)
}

// DELETE /api/addresses/:id
func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "address")
	}
	if err := h.addressService.Delete(middleware.UserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Address deleted"})
}
