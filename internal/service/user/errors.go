package user

import "errors"

var (
	ErrNotFound            = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrInvalidRole         = errors.New("unknown role")
	ErrRoleChangeForbidden = errors.New("only a system admin may change roles")
)
