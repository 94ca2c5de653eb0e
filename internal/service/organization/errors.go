package organization

import "errors"

var (
	ErrNotFound             = errors.New("organization not found")
	ErrNameRequired         = errors.New("organization name is required")
	ErrAdminNotFound        = errors.New("admin user not found")
	ErrAdminWrongRole       = errors.New("admin user must have the organization_admin role")
	ErrAdminAlreadyAssigned = errors.New("admin user already administers an organization")
)
