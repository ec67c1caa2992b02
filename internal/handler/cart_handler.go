package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GET /api/cart?currency=
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.cartService.Get(middleware.CurrentUser(c), c.Query("currency"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

// POST /api/cart/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req service.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	cart, err := h.cartService.AddItem(middleware.CurrentUser(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// PATCH /api/cart/items/:id
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "cart item")
	}
	var req service.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	cart, err := h.cartService.UpdateItem(middleware.CurrentUser(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

// DELETE /api/cart/items/:id
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "cart item")
	}
	cart, err := h.cartService.RemoveItem(middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.cartService.Clear(middleware.CurrentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

// GET /api/wishlist?currency=
func (h *CartHandler) GetWishlist(c *fiber.Ctx) error {
	wishlist, err := h.cartService.Wishlist(middleware.CurrentUser(c), c.Query("currency"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(wishlist)
}

// POST /api/wishlist
func (h *CartHandler) AddToWishlist(c *fiber.Ctx) error {
	var req service.WishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if err := h.cartService.AddToWishlist(middleware.CurrentUser(c), &req); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Added to wishlist"})
}

// DELETE /api/wishlist/:productId
func (h *CartHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return badID(c, "product")
	}
	if err := h.cartService.RemoveFromWishlist(middleware.CurrentUser(c), productID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Removed from wishlist"})
}
