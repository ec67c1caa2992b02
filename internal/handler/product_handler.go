package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductHandler manages the catalog and harvest lots in the back office.
type ProductHandler struct {
	productService service.ProductService
	lotService     service.LotService
}

func NewProductHandler(productService service.ProductService, lotService service.LotService) *ProductHandler {
	return &ProductHandler{productService: productService, lotService: lotService}
}

// GetProducts returns all products including inactive ones
// GET /api/admin/products?category=&search=&page=&limit=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, err := h.productService.List(service.AdminProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 50),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// POST /api/admin/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	product, err := h.productService.Create(&req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    product,
	})
}

// PATCH /api/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "product")
	}
	var req service.PatchProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	product, err := h.productService.Patch(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// DELETE /api/admin/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "product")
	}
	if err := h.productService.Delete(id, middleware.RequestMeta(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// POST /api/admin/products/:id/variants
func (h *ProductHandler) CreateVariant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "product")
	}
	var req service.VariantRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	variant, err := h.productService.CreateVariant(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(variant)
}

// PUT /api/admin/variants/:id
func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "variant")
	}
	var req service.VariantRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	variant, err := h.productService.UpdateVariant(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(variant)
}

// GET /api/admin/lots
func (h *ProductHandler) GetLots(c *fiber.Ctx) error {
	lots, err := h.lotService.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(lots)
}

// POST /api/admin/lots
func (h *ProductHandler) CreateLot(c *fiber.Ctx) error {
	var req service.LotRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	lot, err := h.lotService.Create(&req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// PUT /api/admin/lots/:id
func (h *ProductHandler) UpdateLot(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "lot")
	}
	var req service.LotRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	lot, err := h.lotService.Update(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(lot)
}

// DELETE /api/admin/lots/:id
func (h *ProductHandler) DeleteLot(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "lot")
	}
	if err := h.lotService.Delete(id, middleware.RequestMeta(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Lot deleted successfully"})
}
