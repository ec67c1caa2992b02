package middleware

import (
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/service"
	"newhill-spices/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(token string) (*model.User, *jwt.Claims, error)
}

const (
	localUser   = "user"
	localClaims = "claims"
)

// TokenFrom reads "Bearer <token>" first and falls back to the session cookie.
func TokenFrom(c *fiber.Ctx, cookie string) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(cookie)
}

func setUser(c *fiber.Ctx, user *model.User, claims *jwt.Claims) {
	c.Locals(localUser, user)
	c.Locals(localClaims, claims)
	c.Locals("user_id", user.ID.String())
	c.Locals("user_privileges", user.PrivilegeCodes())
}

// RequireAuth validates the session token and rejects stale token versions.
func RequireAuth(auth Authenticator, cookie string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFrom(c, cookie)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}
		user, claims, err := auth.Authenticate(token)
		if err != nil {
			if service.KindOf(err) == service.KindForbidden {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			}
			if service.KindOf(err) == service.KindUnauthorized {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		setUser(c, user, claims)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and never rejects.
func OptionalAuth(auth Authenticator, cookie string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := TokenFrom(c, cookie); token != "" {
			if user, claims, err := auth.Authenticate(token); err == nil {
				setUser(c, user, claims)
			}
		}
		return c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if !user.HasRole(name) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: requires '" + name + "' role"})
		}
		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}
		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// CurrentUser returns the user set by RequireAuth or OptionalAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localUser).(*model.User)
	return user
}

func CurrentClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(localClaims).(*jwt.Claims)
	return claims
}

// RequestMeta collects the audit details of the current request.
func RequestMeta(c *fiber.Ctx) service.RequestMeta {
	meta := service.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
	if user := CurrentUser(c); user != nil {
		id := user.ID
		meta.UserID = &id
		meta.UserName = user.Name
	}
	return meta
}

// UserID returns the authenticated user's id, or uuid.Nil.
func UserID(c *fiber.Ctx) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}
