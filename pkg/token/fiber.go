package jwttoken

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/yonathan001/Appointment/config"
)

const CtxKeyClaims = "auth.claims"

func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	v := c.Locals(CtxKeyClaims)
	if v == nil {
		return nil, false
	}
	cl, ok := v.(*Claims)
	return cl, ok
}

// BearerToken extracts the token string from the Authorization header, if present.
func BearerToken(c fiber.Ctx) (string, bool) {
	h := c.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// NewJWTManager creates a token manager from config.
// Returns an error if the configuration is invalid.
func NewJWTManager(cfg *config.Config) (*Manager, error) {
	j := cfg.Authentication.JWT

	secret, err := hex.DecodeString(strings.TrimSpace(j.SecretHex))
	if err != nil {
		return nil, ErrConfig{Msg: "invalid secret hex: " + err.Error()}
	}

	return New(Config{
		Secret:     secret,
		Issuer:     j.Issuer,
		Audience:   j.Audience,
		AccessTTL:  time.Duration(j.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(j.RefreshTTLDays) * 24 * time.Hour,
	})
}
