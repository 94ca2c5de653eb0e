package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a tenant. The admin relation is explicit and optional:
// an organization may exist before an admin is attached, and an admin
// administers at most one organization.
type Organization struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`

	AdminID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"admin_id,omitempty"`
	Admin   *User      `gorm:"foreignKey:AdminID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }

func (o *Organization) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TenantOrganizationID makes an organization belong to itself for object
// checks: the admin that runs it owns it.
func (o *Organization) TenantOrganizationID() uuid.UUID { return o.ID }
