package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/yonathan001/Appointment/internal/api/http/handler"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

func (r *Router) registerOrganizationRoutes(
	api fiber.Router,
	h *handler.OrganizationHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	orgs := api.Group("/organizations", authRequired)

	orgs.Get("/", requirePerm(authorize.ResourceOrganization, authorize.ActionList), h.List)
	orgs.Post("/", requirePerm(authorize.ResourceOrganization, authorize.ActionCreate), h.Create)

	o := orgs.Group("/:id")
	o.Get("/", requirePerm(authorize.ResourceOrganization, authorize.ActionRead), h.GetByID)
	o.Get("/services", requirePerm(authorize.ResourceService, authorize.ActionList), h.ListServices)
	o.Patch("/", requirePerm(authorize.ResourceOrganization, authorize.ActionUpdate), h.Update)
	o.Put("/", requirePerm(authorize.ResourceOrganization, authorize.ActionUpdate), h.Update)
	o.Delete("/", requirePerm(authorize.ResourceOrganization, authorize.ActionDelete), h.Delete)
}
