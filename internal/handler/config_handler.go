package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ConfigHandler serves the back-office configuration screens:
// discounts, exchange rates, feature settings and translations.
type ConfigHandler struct {
	discounts    service.DiscountService
	currencies   service.CurrencyService
	settings     service.SettingService
	translations service.TranslationService
}

func NewConfigHandler(discounts service.DiscountService, currencies service.CurrencyService,
	settings service.SettingService, translations service.TranslationService) *ConfigHandler {
	return &ConfigHandler{discounts: discounts, currencies: currencies, settings: settings, translations: translations}
}

// GET /api/admin/discounts
func (h *ConfigHandler) GetDiscounts(c *fiber.Ctx) error {
	codes, err := h.discounts.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(codes)
}

// POST /api/admin/discounts
func (h *ConfigHandler) CreateDiscount(c *fiber.Ctx) error {
	var req service.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	code, err := h.discounts.Create(&req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(code)
}

// PUT /api/admin/discounts/:id
func (h *ConfigHandler) UpdateDiscount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "discount")
	}
	var req service.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	code, err := h.discounts.Update(id, &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(code)
}

// DeleteDiscount deactivates the code; used codes stay referenced by orders.
// DELETE /api/admin/discounts/:id
func (h *ConfigHandler) DeleteDiscount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "discount")
	}
	if err := h.discounts.Deactivate(id, middleware.RequestMeta(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Discount code deactivated"})
}

// GET /api/admin/currencies
func (h *ConfigHandler) GetRates(c *fiber.Ctx) error {
	rates, err := h.currencies.ListRates()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rates)
}

// PUT /api/admin/currencies/:code
func (h *ConfigHandler) SetRate(c *fiber.Ctx) error {
	var req service.SetRateRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	rate, err := h.currencies.SetRate(c.Params("code"), req.Rate, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rate)
}

// POST /api/admin/currencies/refresh
func (h *ConfigHandler) RefreshRates(c *fiber.Ctx) error {
	rates, err := h.currencies.RefreshRates(middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rates)
}

// GET /api/admin/settings
func (h *ConfigHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.All()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(settings)
}

// PUT /api/admin/settings/:key
func (h *ConfigHandler) UpsertSetting(c *fiber.Ctx) error {
	var req service.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	setting, err := h.settings.Upsert(c.Params("key"), &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(setting)
}

// GET /api/admin/translations
func (h *ConfigHandler) GetTranslations(c *fiber.Ctx) error {
	keys, err := h.translations.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(keys)
}

// PUT /api/admin/translations/:key
func (h *ConfigHandler) UpsertTranslation(c *fiber.Ctx) error {
	var req service.TranslationRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	key, err := h.translations.Upsert(c.Params("key"), &req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(key)
}

// DELETE /api/admin/translations/:key
func (h *ConfigHandler) DeleteTranslation(c *fiber.Ctx) error {
	if err := h.translations.Delete(c.Params("key"), middleware.RequestMeta(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Translation deleted"})
}
