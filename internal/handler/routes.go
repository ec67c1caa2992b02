package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything Register mounts.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Address    *AddressHandler
	Store      *StoreHandler
	Cart       *CartHandler
	Order      *OrderHandler
	Product    *ProductHandler
	Dashboard  *DashboardHandler
	Business   *BusinessHandler
	Config     *ConfigHandler
	Role       *RoleHandler
	WS         *WSHandler
	Authn      middleware.Authenticator
	CookieName string
}

// Register mounts the REST API under /api and the websocket under /ws.
func Register(app *fiber.App, h Handlers) {
	requireAuth := middleware.RequireAuth(h.Authn, h.CookieName)
	optionalAuth := middleware.OptionalAuth(h.Authn, h.CookieName)
	priv := middleware.RequirePrivilege

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", optionalAuth, h.Auth.Logout)
	auth.Get("/session", h.Auth.Session)
	auth.Get("/google", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)

	api.Get("/products", optionalAuth, h.Store.GetProducts)
	api.Get("/products/:slug", optionalAuth, h.Store.GetProduct)
	api.Get("/categories", h.Store.GetCategories)
	api.Get("/currencies", h.Store.GetCurrencies)
	api.Get("/i18n/:lang", h.Store.GetBundle)
	api.Get("/settings/flags", h.Store.GetFlags)
	api.Post("/shipping/quote", h.Store.QuoteShipping)

	// ============ CUSTOMER ROUTES ============
	user := api.Group("", requireAuth)
	user.Get("/user/profile", h.User.GetProfile)
	user.Patch("/user/profile", priv(model.PrivProfileUpdate), h.User.UpdateProfile)
	user.Get("/user/preferences", h.User.GetPreferences)
	user.Patch("/user/preferences", priv(model.PrivProfileUpdate), h.User.UpdatePreferences)

	user.Get("/addresses", h.Address.GetAddresses)
	user.Post("/addresses", h.Address.CreateAddress)
	user.Put("/addresses/:id", h.Address.UpdateAddress)
	user.Delete("/addresses/:id", h.Address.DeleteAddress)

	user.Get("/cart", h.Cart.GetCart)
	user.Post("/cart/items", h.Cart.AddItem)
	user.Patch("/cart/items/:id", h.Cart.UpdateItem)
	user.Delete("/cart/items/:id", h.Cart.RemoveItem)
	user.Delete("/cart", h.Cart.ClearCart)
	user.Get("/wishlist", h.Cart.GetWishlist)
	user.Post("/wishlist", h.Cart.AddToWishlist)
	user.Delete("/wishlist/:productId", h.Cart.RemoveFromWishlist)

	user.Post("/checkout", priv(model.PrivOrderCreate), h.Order.Checkout)
	user.Post("/payments/verify", h.Order.VerifyPayment)
	user.Post("/discounts/validate", h.Order.ValidateDiscount)
	user.Get("/orders", h.Order.GetMyOrders)
	user.Get("/orders/:id", h.Order.GetMyOrder)
	user.Get("/orders/:id/tracking", h.Order.GetTracking)

	user.Get("/b2b/account", h.Business.GetAccount)
	user.Post("/b2b/account", h.Business.Apply)

	// ============ ADMIN ROUTES ============
	admin := api.Group("/admin", requireAuth, middleware.RequireRole(model.RoleAdmin))
	admin.Get("/kpi", priv(model.PrivDashboardView), h.Dashboard.GetKPI)
	admin.Get("/sales", priv(model.PrivDashboardView), h.Dashboard.GetSales)
	admin.Get("/activity", priv(model.PrivDashboardView), h.Dashboard.GetActivity)
	admin.Get("/audit-logs", priv(model.PrivAuditView), h.Dashboard.GetAuditLogs)

	admin.Get("/products", priv(model.PrivProductView), h.Product.GetProducts)
	admin.Post("/products", priv(model.PrivProductCreate), h.Product.CreateProduct)
	admin.Patch("/products/:id", priv(model.PrivProductUpdate), h.Product.UpdateProduct)
	admin.Delete("/products/:id", priv(model.PrivProductDelete), h.Product.DeleteProduct)
	admin.Post("/products/:id/variants", priv(model.PrivProductCreate), h.Product.CreateVariant)
	admin.Put("/variants/:id", priv(model.PrivProductUpdate), h.Product.UpdateVariant)
	admin.Get("/lots", priv(model.PrivProductView), h.Product.GetLots)
	admin.Post("/lots", priv(model.PrivProductCreate), h.Product.CreateLot)
	admin.Put("/lots/:id", priv(model.PrivProductUpdate), h.Product.UpdateLot)
	admin.Delete("/lots/:id", priv(model.PrivProductDelete), h.Product.DeleteLot)

	admin.Get("/orders", priv(model.PrivOrderView), h.Order.GetOrders)
	admin.Get("/orders/:id", priv(model.PrivOrderView), h.Order.GetOrder)
	admin.Patch("/orders/:id/status", priv(model.PrivOrderUpdate), h.Order.UpdateStatus)
	admin.Post("/orders/:id/dispatch", priv(model.PrivOrderUpdate), h.Order.Dispatch)
	admin.Post("/orders/:id/refund", priv(model.PrivOrderRefund), h.Order.Refund)

	admin.Get("/customers", priv(model.PrivUserView), h.User.GetCustomers)
	admin.Patch("/customers/:id", priv(model.PrivUserUpdate), h.User.UpdateCustomer)
	admin.Get("/b2b", priv(model.PrivB2BManage), h.Business.GetAccounts)
	admin.Post("/b2b/:id/approve", priv(model.PrivB2BManage), h.Business.Approve)
	admin.Post("/b2b/:id/reject", priv(model.PrivB2BManage), h.Business.Reject)

	admin.Get("/discounts", priv(model.PrivSettingsUpdate), h.Config.GetDiscounts)
	admin.Post("/discounts", priv(model.PrivSettingsUpdate), h.Config.CreateDiscount)
	admin.Put("/discounts/:id", priv(model.PrivSettingsUpdate), h.Config.UpdateDiscount)
	admin.Delete("/discounts/:id", priv(model.PrivSettingsUpdate), h.Config.DeleteDiscount)
	admin.Get("/currencies", priv(model.PrivSettingsUpdate), h.Config.GetRates)
	admin.Put("/currencies/:code", priv(model.PrivSettingsUpdate), h.Config.SetRate)
	admin.Post("/currencies/refresh", priv(model.PrivSettingsUpdate), h.Config.RefreshRates)
	admin.Get("/settings", priv(model.PrivSettingsUpdate), h.Config.GetSettings)
	admin.Put("/settings/:key", priv(model.PrivSettingsUpdate), h.Config.UpsertSetting)
	admin.Get("/translations", priv(model.PrivSettingsUpdate), h.Config.GetTranslations)
	admin.Put("/translations/:key", priv(model.PrivSettingsUpdate), h.Config.UpsertTranslation)
	admin.Delete("/translations/:key", priv(model.PrivSettingsUpdate), h.Config.DeleteTranslation)

	admin.Get("/roles", priv(model.PrivUserView), h.Role.GetRoles)
	admin.Get("/privileges", priv(model.PrivUserView), h.Role.GetPrivileges)

	// WebSocket Route
	if h.WS != nil {
		app.Get("/ws", h.WS.Upgrade, h.WS.Serve())
	}
}
