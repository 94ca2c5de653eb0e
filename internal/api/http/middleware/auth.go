package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/internal/service/auth"
	"github.com/yonathan001/Appointment/internal/service/user"
	"github.com/yonathan001/Appointment/pkg/authorize"
	jwttoken "github.com/yonathan001/Appointment/pkg/token"
)

const CtxKeyActor = "auth.actor"

// AuthRequired authenticates a request and resolves the acting principal.
// The access token is read from the credential cookie first, then from a
// Bearer header for non-browser clients. On success the token claims and
// the resolved actor are stored in locals.
func AuthRequired(mgr *jwttoken.Manager, cookies *jwttoken.CookieWriter, rdb *redis.Client, db *gorm.DB) fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenStr, found := cookies.AccessFromRequest(c)
		if !found {
			tokenStr, found = jwttoken.BearerToken(c)
		}
		if !found {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// Only access tokens are accepted on protected routes
		if claims.Type != jwttoken.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}

		// A revoked session invalidates outstanding access tokens early.
		if claims.SessionID != nil {
			live, err := auth.SessionExists(c.Context(), rdb, *claims.SessionID)
			if err != nil || !live {
				return fiber.ErrUnauthorized
			}
		}

		actor, err := user.ResolveActor(c.Context(), db, claims.UserID)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(jwttoken.CtxKeyClaims, claims)
		c.Locals(CtxKeyActor, actor)
		return c.Next()
	}
}

// ActorFromFiber retrieves the resolved actor stored by AuthRequired.
func ActorFromFiber(c fiber.Ctx) (*authorize.Actor, bool) {
	v := c.Locals(CtxKeyActor)
	if v == nil {
		return nil, false
	}
	actor, ok := v.(*authorize.Actor)
	return actor, ok
}
