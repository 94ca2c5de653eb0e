package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/yonathan001/Appointment/internal/service/auth"
	jwttoken "github.com/yonathan001/Appointment/pkg/token"
)

type AuthHandler struct {
	svc     auth.Service
	tokens  *jwttoken.Manager
	cookies *jwttoken.CookieWriter
}

func NewAuthHandler(svc auth.Service, tokens *jwttoken.Manager, cookies *jwttoken.CookieWriter) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, cookies: cookies}
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.svc.Register(c.Context(), auth.RegisterRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	return created(c, user)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	tokens, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		// No cookies on failure.
		return mapAuthError(c, err)
	}

	h.cookies.SetAccess(c, tokens.AccessToken, h.tokens.AccessTTL())
	h.cookies.SetRefresh(c, tokens.RefreshToken, h.tokens.RefreshTTL())

	return ok(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// POST /api/v1/auth/refresh
//
// The refresh credential travels in its cookie, not the body. A request with
// no refresh cookie is unauthenticated regardless of any body content.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	raw, found := h.cookies.RefreshFromRequest(c)
	if !found {
		return unauthorized(c)
	}

	tokens, err := h.svc.RefreshTokens(c.Context(), raw)
	if err != nil {
		return mapAuthError(c, err)
	}

	h.cookies.SetAccess(c, tokens.AccessToken, h.tokens.AccessTTL())
	h.cookies.SetRefresh(c, tokens.RefreshToken, h.tokens.RefreshTTL())

	return ok(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// POST /api/v1/auth/logout
//
// Always succeeds: clearing cookies for a caller with no live session is a
// no-op, not an error.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if raw, found := h.cookies.RefreshFromRequest(c); found {
		if claims, err := h.tokens.Verify(raw); err == nil && claims.SessionID != nil {
			// Best effort: a stale or already-revoked session is fine.
			_ = h.svc.Logout(c.Context(), *claims.SessionID)
		}
	}

	h.cookies.Clear(c)
	return ok(c, fiber.Map{"message": "logged out"})
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return conflict(c, err.Error())
	case errors.Is(err, auth.ErrInvalidEmail):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrAccountDisabled):
		return forbidden(c)
	case errors.Is(err, auth.ErrSessionNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		return internalError(c)
	}
}
