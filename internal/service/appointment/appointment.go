package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	ServiceID uuid.UUID
	DateTime  time.Time
	Notes     string

	// ClientID is only honoured for staff actors booking on behalf of a
	// client. When the actor is a client, the stored client is always the
	// actor, whatever the payload says.
	ClientID *uuid.UUID

	StaffID *uuid.UUID
}

type UpdateRequest struct {
	DateTime *time.Time
	Status   *model.AppointmentStatus
	Notes    *string
	StaffID  *uuid.UUID
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, actor *authorize.Actor) ([]model.Appointment, error)
	Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Appointment, error)
	Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.Appointment, error)
	Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.Appointment, error)
	Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error
}

type apptService struct {
	db   *gorm.DB
	auth authorize.IAuthorization
}

func New(db *gorm.DB, auth authorize.IAuthorization) Service {
	return &apptService{db: db, auth: auth}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *apptService) List(ctx context.Context, actor *authorize.Actor) ([]model.Appointment, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceAppointment, authorize.ActionList); err != nil {
		return nil, err
	}

	var appts []model.Appointment
	if err := s.db.WithContext(ctx).Scopes(authorize.ScopeAppointments(actor)).Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// Get fetches through the scope first, so an appointment the actor cannot
// see is indistinguishable from one that does not exist.
func (s *apptService) Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Appointment, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceAppointment, authorize.ActionRead); err != nil {
		return nil, err
	}

	appt, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceAppointment, authorize.ActionRead, appt) {
		return nil, ErrNotFound
	}
	return appt, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Create derives ownership server-side: the organization always comes
// from the selected service, and the client from the session when a
// client books.
func (s *apptService) Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.Appointment, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceAppointment, authorize.ActionCreate); err != nil {
		return nil, err
	}

	if req.DateTime.IsZero() {
		return nil, ErrDateTimeRequired
	}

	var svc model.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", req.ServiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("fetch service: %w", err)
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	// An organization admin may only book against their own services.
	if actor.IsOrganizationAdmin() && !actor.AdministersOrg(svc.OrganizationID) {
		return nil, authorize.ErrForbidden
	}

	clientID, err := s.deriveClient(ctx, actor, req.ClientID)
	if err != nil {
		return nil, err
	}

	if req.StaffID != nil {
		if err := s.validateStaff(ctx, *req.StaffID, svc.OrganizationID); err != nil {
			return nil, err
		}
	}

	appt := &model.Appointment{
		OrganizationID: svc.OrganizationID,
		ServiceID:      svc.ID,
		ClientID:       clientID,
		StaffID:        req.StaffID,
		DateTime:       req.DateTime,
		Status:         model.StatusPending,
		Notes:          req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(appt).Error; err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return appt, nil
}

// Update never touches the derived fields: organization, service and
// client stay what creation stamped them to.
func (s *apptService) Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.Appointment, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceAppointment, authorize.ActionUpdate); err != nil {
		return nil, err
	}

	appt, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceAppointment, authorize.ActionUpdate, appt) {
		return nil, authorize.ErrForbidden
	}

	updates := map[string]any{}
	if req.DateTime != nil {
		if req.DateTime.IsZero() {
			return nil, ErrDateTimeRequired
		}
		updates["date_time"] = *req.DateTime
	}
	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.StaffID != nil {
		if err := s.validateStaff(ctx, *req.StaffID, appt.OrganizationID); err != nil {
			return nil, err
		}
		updates["staff_id"] = *req.StaffID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(appt).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
	}
	return appt, nil
}

func (s *apptService) Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceAppointment, authorize.ActionDelete); err != nil {
		return err
	}

	appt, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authorize.CanAccess(actor, authorize.ResourceAppointment, authorize.ActionDelete, appt) {
		return authorize.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(appt).Error; err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *apptService) deriveClient(ctx context.Context, actor *authorize.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.IsClient() {
		return actor.ID, nil
	}

	if requested == nil {
		return uuid.Nil, ErrClientRequired
	}

	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", *requested).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return uuid.Nil, ErrClientInvalid
		}
		return uuid.Nil, fmt.Errorf("fetch client: %w", err)
	}
	if u.Role != authorize.RoleClient {
		return uuid.Nil, ErrClientInvalid
	}
	return u.ID, nil
}

func (s *apptService) validateStaff(ctx context.Context, staffID, orgID uuid.UUID) error {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", staffID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrStaffInvalid
		}
		return fmt.Errorf("fetch staff: %w", err)
	}
	if u.OrganizationID == nil || *u.OrganizationID != orgID {
		return ErrStaffInvalid
	}
	return nil
}

func (s *apptService) fetchScoped(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	err := s.db.WithContext(ctx).Scopes(authorize.ScopeAppointments(actor)).First(&appt, "appointments.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch appointment: %w", err)
	}
	return &appt, nil
}
