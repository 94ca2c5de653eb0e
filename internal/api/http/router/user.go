package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/yonathan001/Appointment/internal/api/http/handler"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	h *handler.UserHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)

	users.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionList), h.List)
	users.Post("/", requirePerm(authorize.ResourceUser, authorize.ActionCreate), h.Create)
	users.Get("/me", h.Me)

	u := users.Group("/:id")
	u.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.GetByID)
	u.Patch("/", requirePerm(authorize.ResourceUser, authorize.ActionUpdate), h.Update)
	u.Put("/", requirePerm(authorize.ResourceUser, authorize.ActionUpdate), h.Update)
	u.Delete("/", requirePerm(authorize.ResourceUser, authorize.ActionDelete), h.Delete)
}
