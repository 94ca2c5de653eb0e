package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/yonathan001/Appointment/internal/api/http/middleware"
	"github.com/yonathan001/Appointment/internal/service/organization"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

type OrganizationHandler struct {
	svc organization.Service
}

func NewOrganizationHandler(svc organization.Service) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

func mapOrganizationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, organization.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, organization.ErrNameRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, organization.ErrAdminNotFound):
		return badRequest(c, err.Error())
	case errors.Is(err, organization.ErrAdminWrongRole):
		return badRequest(c, err.Error())
	case errors.Is(err, organization.ErrAdminAlreadyAssigned):
		return conflict(c, err.Error())
	case errors.Is(err, authorize.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /organizations
func (h *OrganizationHandler) List(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	orgs, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return mapOrganizationError(c, err)
	}
	return ok(c, orgs)
}

// GET /organizations/:id
func (h *OrganizationHandler) GetByID(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid organization id")
	}

	org, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return mapOrganizationError(c, err)
	}
	return ok(c, org)
}

// GET /organizations/:id/services
func (h *OrganizationHandler) ListServices(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid organization id")
	}

	services, err := h.svc.ListServices(c.Context(), actor, id)
	if err != nil {
		return mapOrganizationError(c, err)
	}
	return ok(c, services)
}

// POST /organizations
func (h *OrganizationHandler) Create(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
		AdminID     string `json:"admin_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := organization.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Address:     body.Address,
		Phone:       body.Phone,
	}
	if body.AdminID != "" {
		adminID, err := uuid.Parse(body.AdminID)
		if err != nil {
			return badRequest(c, "invalid admin_id")
		}
		req.AdminID = &adminID
	}

	org, err := h.svc.Create(c.Context(), actor, req)
	if err != nil {
		return mapOrganizationError(c, err)
	}
	return created(c, org)
}

// PATCH /organizations/:id
func (h *OrganizationHandler) Update(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid organization id")
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		Phone       *string `json:"phone"`
		IsActive    *bool   `json:"is_active"`
		AdminID     *string `json:"admin_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := organization.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Address:     body.Address,
		Phone:       body.Phone,
		IsActive:    body.IsActive,
	}
	if body.AdminID != nil {
		adminID, err := uuid.Parse(*body.AdminID)
		if err != nil {
			return badRequest(c, "invalid admin_id")
		}
		req.AdminID = &adminID
	}

	org, err := h.svc.Update(c.Context(), actor, id, req)
	if err != nil {
		return mapOrganizationError(c, err)
	}
	return ok(c, org)
}

// DELETE /organizations/:id
func (h *OrganizationHandler) Delete(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid organization id")
	}

	if err := h.svc.Delete(c.Context(), actor, id); err != nil {
		return mapOrganizationError(c, err)
	}
	return noContent(c)
}
