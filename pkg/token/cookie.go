package jwttoken

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/yonathan001/Appointment/config"
)

// CookieWriter writes and clears the credential cookie pair with a fixed
// attribute set, so that deletion matches emission exactly.
type CookieWriter struct {
	cfg config.CookieConfig
}

func NewCookieWriter(cfg *config.Config) *CookieWriter {
	return &CookieWriter{cfg: cfg.Authentication.Cookie}
}

func (w *CookieWriter) SetAccess(c fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(w.build(w.cfg.AccessName, token, time.Now().Add(ttl)))
}

func (w *CookieWriter) SetRefresh(c fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(w.build(w.cfg.RefreshName, token, time.Now().Add(ttl)))
}

// Clear expires both cookies. Browsers only drop a cookie when the clearing
// Set-Cookie carries the same path and samesite attributes it was created
// with, so Clear reuses build instead of a bare expiry.
func (w *CookieWriter) Clear(c fiber.Ctx) {
	past := time.Now().Add(-time.Hour)
	c.Cookie(w.build(w.cfg.AccessName, "", past))
	c.Cookie(w.build(w.cfg.RefreshName, "", past))
}

// AccessFromRequest reads the access token cookie, if present.
func (w *CookieWriter) AccessFromRequest(c fiber.Ctx) (string, bool) {
	v := c.Cookies(w.cfg.AccessName)
	return v, v != ""
}

// RefreshFromRequest reads the refresh token cookie, if present.
func (w *CookieWriter) RefreshFromRequest(c fiber.Ctx) (string, bool) {
	v := c.Cookies(w.cfg.RefreshName)
	return v, v != ""
}

func (w *CookieWriter) build(name, value string, expires time.Time) *fiber.Cookie {
	path := w.cfg.Path
	if path == "" {
		path = "/"
	}

	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		Secure:   w.cfg.Secure,
		HTTPOnly: w.cfg.HTTPOnly,
		SameSite: sameSiteMode(w.cfg.SameSite),
	}
}

func sameSiteMode(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return fiber.CookieSameSiteStrictMode
	case "none":
		return fiber.CookieSameSiteNoneMode
	default:
		return fiber.CookieSameSiteLaxMode
	}
}
