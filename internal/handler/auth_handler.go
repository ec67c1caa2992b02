package handler

import (
	"time"

	"newhill-spices/internal/middleware"
	"newhill-spices/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const oauthStateCookie = "newhill_oauth_state"

type AuthHandler struct {
	authService  service.AuthService
	oauthService service.OAuthService
	cookieName   string
	secure       bool
}

func NewAuthHandler(authService service.AuthService, oauthService service.OAuthService, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{authService: authService, oauthService: oauthService, cookieName: cookieName, secure: secure}
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, s *service.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Signup creates a customer account and signs it in
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req service.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	user, err := h.authService.Signup(&req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	session, err := h.authService.IssueSession(user)
	if err != nil {
		return fail(c, err)
	}
	h.setSessionCookie(c, session)
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	session, err := h.authService.Login(&req, middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	h.setSessionCookie(c, session)
	return c.JSON(session)
}

// Logout ends every session of the caller and clears the cookie.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		if err := h.authService.Logout(user.ID, middleware.RequestMeta(c)); err != nil {
			return fail(c, err)
		}
	}
	c.ClearCookie(h.cookieName)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Session returns the caller's session, or an empty object when signed out.
// GET /api/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token := middleware.TokenFrom(c, h.cookieName)
	if token == "" {
		return c.JSON(fiber.Map{})
	}
	session, err := h.authService.Session(token)
	if err != nil {
		if service.KindOf(err) == service.KindUnauthorized || service.KindOf(err) == service.KindForbidden {
			c.ClearCookie(h.cookieName)
			return c.JSON(fiber.Map{})
		}
		return fail(c, err)
	}
	return c.JSON(session)
}

// GoogleLogin redirects to the Google consent screen.
// GET /api/auth/google
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	if !h.oauthService.Enabled() {
		return fail(c, service.ErrOAuthDisabled)
	}
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.oauthService.AuthURL(state), fiber.StatusFound)
}

// GoogleCallback exchanges the code, signs the user in and sets the session cookie.
// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid OAuth state"})
	}
	c.ClearCookie(oauthStateCookie)
	session, err := h.oauthService.Callback(c.UserContext(), c.Query("code"), middleware.RequestMeta(c))
	if err != nil {
		return fail(c, err)
	}
	h.setSessionCookie(c, session)
	return c.JSON(session)
}
