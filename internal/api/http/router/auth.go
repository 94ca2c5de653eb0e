package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/yonathan001/Appointment/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler) {
	group := api.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/refresh", h.Refresh)

	// Logout is deliberately unauthenticated: clearing cookies must work
	// even when the session is already gone.
	group.Post("/logout", h.Logout)
}
