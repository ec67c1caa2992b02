package handler

import (
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DashboardHandler struct {
	service service.DashboardService
	audit   service.AuditService
}

func NewDashboardHandler(s service.DashboardService, audit service.AuditService) *DashboardHandler {
	return &DashboardHandler{service: s, audit: audit}
}

// GetKPI returns the month-to-date dashboard cards
// GET /api/admin/kpi
func (h *DashboardHandler) GetKPI(c *fiber.Ctx) error {
	kpi, err := h.service.KPI()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(kpi)
}

// GetSales returns daily order counts and revenue for charts
// Query params: days (default 30)
func (h *DashboardHandler) GetSales(c *fiber.Ctx) error {
	days := queryInt(c, "days", 30)
	if days <= 0 {
		days = 30
	}
	data, err := h.service.SalesSeries(days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GET /api/admin/activity
func (h *DashboardHandler) GetActivity(c *fiber.Ctx) error {
	feed, err := h.audit.ActivityFeed()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(feed)
}

// GET /api/admin/audit-logs?user_id=&resource=&action=&page=&limit=
func (h *DashboardHandler) GetAuditLogs(c *fiber.Ctx) error {
	params := service.AuditListParams{
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 50),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badID(c, "user")
		}
		params.UserID = &id
	}
	page, err := h.audit.List(params)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}
