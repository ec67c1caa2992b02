package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler serves the public storefront endpoints.
type StoreHandler struct {
	catalog      service.CatalogService
	currencies   service.CurrencyService
	translations service.TranslationService
	settings     service.SettingService
	checkout     service.CheckoutService
}

func NewStoreHandler(catalog service.CatalogService, currencies service.CurrencyService, translations service.TranslationService,
	settings service.SettingService, checkout service.CheckoutService) *StoreHandler {
	return &StoreHandler{
		catalog:      catalog,
		currencies:   currencies,
		translations: translations,
		settings:     settings,
		checkout:     checkout,
	}
}

// GetProducts lists active products priced in the requested currency
// GET /api/products?category=&search=&featured=&page=&limit=&currency=
func (h *StoreHandler) GetProducts(c *fiber.Ctx) error {
	page, err := h.catalog.List(service.CatalogFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: c.QueryBool("featured"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 12),
		Currency: c.Query("currency"),
	}, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// GET /api/products/:slug
func (h *StoreHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetBySlug(c.Params("slug"), c.Query("currency"), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// GET /api/categories
func (h *StoreHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// GET /api/currencies
func (h *StoreHandler) GetCurrencies(c *fiber.Ctx) error {
	rates, err := h.currencies.ListRates()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rates)
}

// GET /api/i18n/:lang
func (h *StoreHandler) GetBundle(c *fiber.Ctx) error {
	bundle, err := h.translations.Bundle(c.Params("lang"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bundle)
}

// GET /api/settings/flags
func (h *StoreHandler) GetFlags(c *fiber.Ctx) error {
	flags, err := h.settings.Flags()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(flags)
}

// POST /api/shipping/quote
func (h *StoreHandler) QuoteShipping(c *fiber.Ctx) error {
	var req service.ShippingQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	quote, err := h.checkout.QuoteShipping(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(quote)
}
