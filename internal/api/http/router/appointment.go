package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/yonathan001/Appointment/internal/api/http/handler"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	h *handler.AppointmentHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appts := api.Group("/appointments", authRequired)

	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionList), h.List)
	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), h.Create)

	a := appts.Group("/:id")
	a.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), h.GetByID)
	a.Patch("/", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), h.Update)
	a.Put("/", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), h.Update)
	a.Delete("/", requirePerm(authorize.ResourceAppointment, authorize.ActionDelete), h.Delete)
}
