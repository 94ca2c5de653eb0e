package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/yonathan001/Appointment/pkg/authorize"
)

// RequirePermission rejects the request unless the actor may perform the
// action on the resource kind. Row-level checks stay in the services;
// this gate only filters requests that could never succeed.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := ActorFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if err := auth.MustEnforce(c.Context(), actor, resource, action); err != nil {
			if err == authorize.ErrForbidden {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
