package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/pkg/authorize"
)

// User is any account in the system: system admins, organization admins
// and booking clients share the table and differ by role.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`

	Role        authorize.Role `gorm:"type:varchar(32);not null;default:'client'" json:"role"`
	IsSuperuser bool           `gorm:"not null;default:false" json:"is_superuser"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`

	// OrganizationID is set for staff accounts that belong to an
	// organization. Booking clients are not attached to one.
	OrganizationID *uuid.UUID    `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// PrincipalID identifies this row as a user account for object checks.
func (u *User) PrincipalID() uuid.UUID { return u.ID }

// TenantOrganizationID reports the organization this account belongs to,
// uuid.Nil when unattached.
func (u *User) TenantOrganizationID() uuid.UUID {
	if u.OrganizationID == nil {
		return uuid.Nil
	}
	return *u.OrganizationID
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
