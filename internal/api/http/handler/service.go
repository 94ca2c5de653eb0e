package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/yonathan001/Appointment/internal/api/http/middleware"
	"github.com/yonathan001/Appointment/internal/service/catalog"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

type ServiceHandler struct {
	svc catalog.Service
}

func NewServiceHandler(svc catalog.Service) *ServiceHandler {
	return &ServiceHandler{svc: svc}
}

func mapServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, catalog.ErrNameRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, catalog.ErrInvalidDuration):
		return badRequest(c, err.Error())
	case errors.Is(err, catalog.ErrInvalidPrice):
		return badRequest(c, err.Error())
	case errors.Is(err, catalog.ErrOrganizationRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, catalog.ErrOrganizationNotFound):
		return badRequest(c, err.Error())
	case errors.Is(err, authorize.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /services
func (h *ServiceHandler) List(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	services, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, services)
}

// GET /services/:id
func (h *ServiceHandler) GetByID(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid service id")
	}

	svc, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, svc)
}

// POST /services
func (h *ServiceHandler) Create(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var body struct {
		Name            string  `json:"name"`
		Description     string  `json:"description"`
		DurationMinutes int     `json:"duration_minutes"`
		Price           float64 `json:"price"`
		OrganizationID  string  `json:"organization_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := catalog.CreateRequest{
		Name:            body.Name,
		Description:     body.Description,
		DurationMinutes: body.DurationMinutes,
		Price:           body.Price,
	}
	if body.OrganizationID != "" {
		orgID, err := uuid.Parse(body.OrganizationID)
		if err != nil {
			return badRequest(c, "invalid organization_id")
		}
		req.OrganizationID = &orgID
	}

	svc, err := h.svc.Create(c.Context(), actor, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return created(c, svc)
}

// PATCH /services/:id
func (h *ServiceHandler) Update(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid service id")
	}

	var body struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		DurationMinutes *int     `json:"duration_minutes"`
		Price           *float64 `json:"price"`
		IsActive        *bool    `json:"is_active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	svc, err := h.svc.Update(c.Context(), actor, id, catalog.UpdateRequest{
		Name:            body.Name,
		Description:     body.Description,
		DurationMinutes: body.DurationMinutes,
		Price:           body.Price,
		IsActive:        body.IsActive,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, svc)
}

// DELETE /services/:id
func (h *ServiceHandler) Delete(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid service id")
	}

	if err := h.svc.Delete(c.Context(), actor, id); err != nil {
		return mapServiceError(c, err)
	}
	return noContent(c)
}
