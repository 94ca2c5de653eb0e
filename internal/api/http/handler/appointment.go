package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/yonathan001/Appointment/internal/api/http/middleware"
	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/internal/service/appointment"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrServiceNotFound):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrServiceInactive):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrClientRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrClientInvalid):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrStaffInvalid):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidStatus):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrDateTimeRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, authorize.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	appts, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appts)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	var body struct {
		ServiceID string `json:"service_id"`
		DateTime  string `json:"date_time"`
		Notes     string `json:"notes"`
		ClientID  string `json:"client_id"`
		StaffID   string `json:"staff_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	serviceID, err := uuid.Parse(body.ServiceID)
	if err != nil {
		return badRequest(c, "invalid service_id")
	}

	req := appointment.CreateRequest{
		ServiceID: serviceID,
		Notes:     body.Notes,
	}
	if body.DateTime != "" {
		t, err := time.Parse(time.RFC3339, body.DateTime)
		if err != nil {
			return badRequest(c, "invalid date_time, expected RFC3339")
		}
		req.DateTime = t
	}
	if body.ClientID != "" {
		clientID, err := uuid.Parse(body.ClientID)
		if err != nil {
			return badRequest(c, "invalid client_id")
		}
		req.ClientID = &clientID
	}
	if body.StaffID != "" {
		staffID, err := uuid.Parse(body.StaffID)
		if err != nil {
			return badRequest(c, "invalid staff_id")
		}
		req.StaffID = &staffID
	}

	appt, err := h.svc.Create(c.Context(), actor, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

// PATCH /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		DateTime *string `json:"date_time"`
		Status   *string `json:"status"`
		Notes    *string `json:"notes"`
		StaffID  *string `json:"staff_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := appointment.UpdateRequest{
		Notes: body.Notes,
	}
	if body.DateTime != nil {
		t, err := time.Parse(time.RFC3339, *body.DateTime)
		if err != nil {
			return badRequest(c, "invalid date_time, expected RFC3339")
		}
		req.DateTime = &t
	}
	if body.Status != nil {
		status := model.AppointmentStatus(*body.Status)
		req.Status = &status
	}
	if body.StaffID != nil {
		staffID, err := uuid.Parse(*body.StaffID)
		if err != nil {
			return badRequest(c, "invalid staff_id")
		}
		req.StaffID = &staffID
	}

	appt, err := h.svc.Update(c.Context(), actor, id, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	actor, valid := middleware.ActorFromFiber(c)
	if !valid {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Delete(c.Context(), actor, id); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}
