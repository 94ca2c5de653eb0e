package catalog

import "errors"

var (
	ErrNotFound             = errors.New("service not found")
	ErrNameRequired         = errors.New("service name is required")
	ErrInvalidDuration      = errors.New("duration must be a positive number of minutes")
	ErrInvalidPrice         = errors.New("price must not be negative")
	ErrOrganizationRequired = errors.New("organization is required")
	ErrOrganizationNotFound = errors.New("organization not found")
)
