package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/pkg/authorize"
	"github.com/yonathan001/Appointment/pkg/util/password"
)

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      authorize.Role

	// OrganizationID attaches a staff account to an organization.
	OrganizationID *uuid.UUID
}

type UpdateRequest struct {
	FirstName *string
	LastName  *string
	Role      *authorize.Role
	IsActive  *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, actor *authorize.Actor) ([]model.User, error)
	Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.User, error)
	Me(ctx context.Context, actor *authorize.Actor) (*model.User, error)
	Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.User, error)
	Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.User, error)
	Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error
}

type userService struct {
	db   *gorm.DB
	auth authorize.IAuthorization
}

func New(db *gorm.DB, auth authorize.IAuthorization) Service {
	return &userService{db: db, auth: auth}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *userService) List(ctx context.Context, actor *authorize.Actor) ([]model.User, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceUser, authorize.ActionList); err != nil {
		return nil, err
	}

	var users []model.User
	if err := s.db.WithContext(ctx).Scopes(authorize.ScopeUsers(actor)).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get fetches through the actor's scope, so a user outside the actor's
// visibility comes back as ErrNotFound rather than Forbidden.
func (s *userService) Get(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.User, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceUser, authorize.ActionRead); err != nil {
		return nil, err
	}

	u, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceUser, authorize.ActionRead, u) {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *userService) Me(ctx context.Context, actor *authorize.Actor) (*model.User, error) {
	if actor == nil {
		return nil, authorize.ErrForbidden
	}

	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", actor.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &u, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Create provisions staff and admin accounts. Self-registration of booking
// clients goes through the auth service instead.
func (s *userService) Create(ctx context.Context, actor *authorize.Actor, req CreateRequest) (*model.User, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceUser, authorize.ActionCreate); err != nil {
		return nil, err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !reEmail.MatchString(req.Email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if !authorize.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailAlreadyExists
	}

	passHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:          req.Email,
		PasswordHash:   passHash,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, actor *authorize.Actor, id uuid.UUID, req UpdateRequest) (*model.User, error) {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceUser, authorize.ActionUpdate); err != nil {
		return nil, err
	}

	u, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authorize.CanAccess(actor, authorize.ResourceUser, authorize.ActionUpdate, u) {
		return nil, authorize.ErrForbidden
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil && *req.Role != u.Role {
		// Roles are assigned by system admins only, even on one's own
		// account; otherwise any client could promote themselves.
		if !actor.IsSystemAdmin() {
			return nil, ErrRoleChangeForbidden
		}
		if !authorize.IsValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		if !actor.IsSystemAdmin() {
			return nil, authorize.ErrForbidden
		}
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, actor *authorize.Actor, id uuid.UUID) error {
	if err := s.auth.MustEnforce(ctx, actor, authorize.ResourceUser, authorize.ActionDelete); err != nil {
		return err
	}

	u, err := s.fetchScoped(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authorize.CanAccess(actor, authorize.ResourceUser, authorize.ActionDelete, u) {
		return authorize.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(u).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) fetchScoped(ctx context.Context, actor *authorize.Actor, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Scopes(authorize.ScopeUsers(actor)).First(&u, "users.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &u, nil
}

// ---------------------------------------------------------------------------
// Actor resolution
// ---------------------------------------------------------------------------

// ResolveActor loads the user behind an authenticated session and builds
// the actor all authorization decisions run against. For organization
// admins it also resolves the organization they administer, through the
// explicit admin relation on the organization.
func ResolveActor(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*authorize.Actor, error) {
	var u model.User
	if err := db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if !u.IsActive {
		return nil, authorize.ErrForbidden
	}

	actor := &authorize.Actor{
		ID:          u.ID,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}

	if u.Role == authorize.RoleOrganizationAdmin {
		var org model.Organization
		err := db.WithContext(ctx).First(&org, "admin_id = ?", u.ID).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// admin not attached to an organization yet; scopes treat
			// this as the empty set
		case err != nil:
			return nil, fmt.Errorf("resolve administered organization: %w", err)
		default:
			actor.OrganizationID = &org.ID
		}
	}

	return actor, nil
}
