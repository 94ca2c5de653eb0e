package organization

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
	Name        string
	Description string
	Address     string
	Phone       string

	// AdminID attaches a pre-existing organization_admin user. Optional:
	// an organization may start without one.
	AdminID *uuid.UUID
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	IsActive    *bool
	AdminID     *uuid.UUID
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, actor *authorize.Actor) ([]model.Organization, error)
	Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Organization, error)
	Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.Organization, error)
	Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.Organization, error)
	Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error
	ListServices(ctx context.Context, actor *authorize.Actor, id uuid.UUID) ([]model.Service, error)
}

type orgService struct {
	db   *gorm.DB
	auth authorize.IAuthorization
}

func New(db *gorm.DB, auth authorize.IAuthorization) Service {
	return &orgService{db: db, auth: auth}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *orgService) List(ctx context.Context, actor *authorize.Actor) ([]model.Organization, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceOrganization, authorize.ActionList); err != nil {
		return nil, err
	}

	var orgs []model.Organization
	if err := s.db.WithContext(ctx).Scopes(authorize.ScopeOrganizations(actor)).Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

func (s *orgService) Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Organization, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceOrganization, authorize.ActionRead); err != nil {
		return nil, err
	}

	org, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceOrganization, authorize.ActionRead, org) {
		return nil, ErrNotFound
	}
	return org, nil
}

// ListServices returns the catalog of one organization. Visibility follows
// the service scope, so an organization admin asking about a foreign
// organization gets an empty list, not an error. Clients only see bookable
// services; the owner and system admins see retired ones too.
func (s *orgService) ListServices(ctx context.Context, actor *authorize.Actor, id uuid.UUID) ([]model.Service, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceService, authorize.ActionList); err != nil {
		return nil, err
	}

	if _, err := s.fetchScoped(ctx, actor, id); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Scopes(authorize.ScopeServices(actor)).
		Where("services.organization_id = ?", id)
	if actor.IsClient() {
		q = q.Where("services.is_active = ?", true)
	}

	var services []model.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list organization services: %w", err)
	}
	return services, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Create provisions a tenant. Only system admins pass the enforcer for
// this action; the designated admin must already exist with the right
// role and must not be running another organization.
func (s *orgService) Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.Organization, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceOrganization, authorize.ActionCreate); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	if req.AdminID != nil {
		if err := s.validateAdmin(ctx, *req.AdminID, nil); err != nil {
			return nil, err
		}
	}

	org := &model.Organization{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		AdminID:     req.AdminID,
		IsActive:    true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		if req.AdminID != nil {
			// the admin becomes a member of the organization they run
			if err := tx.Model(&model.User{}).Where("id = ?", *req.AdminID).
				Update("organization_id", org.ID).Error; err != nil {
				return fmt.Errorf("attach admin: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (s *orgService) Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.Organization, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceOrganization, authorize.ActionUpdate); err != nil {
		return nil, err
	}

	org, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceOrganization, authorize.ActionUpdate, org) {
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
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		if !actor.IsSystemAdmin() {
			return nil, authorize.ErrForbidden
		}
		updates["is_active"] = *req.IsActive
	}
	if req.AdminID != nil {
		// reassigning the admin relation is a tenancy change
		if !actor.IsSystemAdmin() {
			return nil, authorize.ErrForbidden
		}
		if err := s.validateAdmin(ctx, *req.AdminID, &org.ID); err != nil {
			return nil, err
		}
		updates["admin_id"] = *req.AdminID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(org).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update organization: %w", err)
		}
	}
	return org, nil
}

func (s *orgService) Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceOrganization, authorize.ActionDelete); err != nil {
		return err
	}

	org, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authorize.CanAccess(actor, authorize.ResourceOrganization, authorize.ActionDelete, org) {
		return authorize.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(org).Error; err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *orgService) fetchScoped(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := s.db.WithContext(ctx).Scopes(authorize.ScopeOrganizations(actor)).First(&org, "organizations.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch organization: %w", err)
	}
	return &org, nil
}

// validateAdmin checks the candidate admin exists, carries the
// organization_admin role, and does not already run another organization.
func (s *orgService) validateAdmin(ctx context.Context, adminID uuid.UUID, forOrg *uuid.UUID) error {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", adminID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrAdminNotFound
		}
		return fmt.Errorf("fetch admin: %w", err)
	}
	if u.Role != authorize.RoleOrganizationAdmin {
		return ErrAdminWrongRole
	}

	var existing model.Organization
	err := s.db.WithContext(ctx).First(&existing, "admin_id = ?", adminID).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return nil
	case err != nil:
		return fmt.Errorf("check admin assignment: %w", err)
	case forOrg != nil && existing.ID == *forOrg:
		return nil
	default:
		return ErrAdminAlreadyAssigned
	}
}
