package handler

import (
	"newhill-spices/internal/middleware"
	"newhill-spices/internal/model"
	"newhill-spices/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WSHandler upgrades /ws connections after checking the token in ?token=.
type WSHandler struct {
	hub  *ws.Hub
	auth middleware.Authenticator
}

func NewWSHandler(hub *ws.Hub, auth middleware.Authenticator) *WSHandler {
	return &WSHandler{hub: hub, auth: auth}
}

// Upgrade authenticates before the protocol switch so a bad token gets a plain 401.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	user, _, err := h.auth.Authenticate(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	c.Locals("ws_user", user)
	return c.Next()
}

func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		user, ok := c.Locals("ws_user").(*model.User)
		if !ok {
			return
		}
		client := &ws.Client{Conn: c, UserID: user.ID, IsAdmin: user.HasRole(model.RoleAdmin)}
		if !h.hub.Join(client) {
			return
		}
		defer h.hub.Leave(client)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
