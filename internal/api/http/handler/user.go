package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/yonathan001/Appointment/internal/api/http/middleware"
	"github.com/yonathan001/Appointment/internal/service/user"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return conflict(c, err.Error())
	case errors.Is(err, user.ErrInvalidEmail):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrRoleChangeForbidden):
		return forbidden(c)
	case errors.Is(err, authorize.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /users
func (h *UserHandler) List(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	users, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, users)
}

// GET /users/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	me, err := h.svc.Me(c.Context(), actor)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, me)
}

// GET /users/:id
func (h *UserHandler) GetByID(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	u, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

// POST /users
func (h *UserHandler) Create(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var body struct {
		Email          string `json:"email"`
		Password       string `json:"password"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Role           string `json:"role"`
		OrganizationID string `json:"organization_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := user.CreateRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Role:      authorize.Role(body.Role),
	}
	if body.OrganizationID != "" {
		orgID, err := uuid.Parse(body.OrganizationID)
		if err != nil {
			return badRequest(c, "invalid organization_id")
		}
		req.OrganizationID = &orgID
	}

	u, err := h.svc.Create(c.Context(), actor, req)
	if err != nil {
		return mapUserError(c, err)
	}
	return created(c, u)
}

// PATCH /users/:id
func (h *UserHandler) Update(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var body struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Role      *string `json:"role"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := user.UpdateRequest{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		IsActive:  body.IsActive,
	}
	if body.Role != nil {
		role := authorize.Role(*body.Role)
		req.Role = &role
	}

	u, err := h.svc.Update(c.Context(), actor, id, req)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	if err := h.svc.Delete(c.Context(), actor, id); err != nil {
		return mapUserError(c, err)
	}
	return noContent(c)
}
