// Package catalog manages the services organizations offer for booking.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name            string
	Description     string
	DurationMinutes int
	Price           float64

	// OrganizationID is only honoured for system admins. For organization
	// admins the owning organization is always the one they administer,
	// whatever the payload says.
	OrganizationID *uuid.UUID
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *float64
	IsActive        *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, actor *authorize.Actor) ([]model.Service, error)
	Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Service, error)
	Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.Service, error)
	Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.Service, error)
	Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error
}

type catalogService struct {
	db   *gorm.DB
	auth authorize.IAuthorization
}

func New(db *gorm.DB, auth authorize.IAuthorization) Service {
	return &catalogService{db: db, auth: auth}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *catalogService) List(ctx context.Context, actor *authorize.Actor) ([]model.Service, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceService, authorize.ActionList); err != nil {
		return nil, err
	}

	var services []model.Service
	if err := s.db.WithContext(ctx).Scopes(authorize.ScopeServices(actor)).Order("name ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *catalogService) Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Service, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceService, authorize.ActionRead); err != nil {
		return nil, err
	}

	svc, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceService, authorize.ActionRead, svc) {
		return nil, ErrNotFound
	}
	return svc, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func (s *catalogService) Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.Service, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceService, authorize.ActionCreate); err != nil {
		return nil, err
	}

	orgID, err := s.deriveOrganization(ctx, actor, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if req.Price < 0 {
		return nil, ErrInvalidPrice
	}

	svc := &model.Service{
		OrganizationID:  orgID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if err := s.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

// Update changes everything except the owning organization, which is
// immutable after creation.
func (s *catalogService) Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.Service, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceService, authorize.ActionUpdate); err != nil {
		return nil, err
	}

	svc, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceService, authorize.ActionUpdate, svc) {
		return nil, authorize.ErrForbidden
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		updates["price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(svc).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update service: %w", err)
		}
	}
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceService, authorize.ActionDelete); err != nil {
		return err
	}

	svc, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authorize.CanAccess(actor, authorize.ResourceService, authorize.ActionDelete, svc) {
		return authorize.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(svc).Error; err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// deriveOrganization stamps the owning organization server-side. An
// organization admin always gets the organization they administer, and an
// admin that administers none is refused rather than crashing. Only a
// system admin may name an organization explicitly.
func (s *catalogService) deriveOrganization(ctx context.Context, actor *authorize.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.IsSystemAdmin() {
		if requested == nil {
			return uuid.Nil, ErrOrganizationRequired
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", *requested).Count(&count).Error; err != nil {
			return uuid.Nil, fmt.Errorf("check organization: %w", err)
		}
		if count == 0 {
			return uuid.Nil, ErrOrganizationNotFound
		}
		return *requested, nil
	}

	if actor.OrganizationID == nil {
		return uuid.Nil, authorize.ErrForbidden
	}
	return *actor.OrganizationID, nil
}

func (s *catalogService) fetchScoped(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Service, error) {
	var svc model.Service
	err := s.db.WithContext(ctx).Scopes(authorize.ScopeServices(actor)).First(&svc, "services.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch service: %w", err)
	}
	return &svc, nil
}
