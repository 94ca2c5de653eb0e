package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var KnownStatuses = map[AppointmentStatus]struct{}{
	StatusPending: {}, StatusApproved: {}, StatusCompleted: {}, StatusCancelled: {},
}

func IsValidStatus(s AppointmentStatus) bool {
	_, ok := KnownStatuses[s]
	return ok
}

// Appointment is a booking of a service by a client. Its organization is
// always the service's organization and its client is stamped from the
// session when a client books, so neither field is trusted from input.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`
	Service   *Service  `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"-"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *User     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	StaffID *uuid.UUID `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	Staff   *User      `gorm:"foreignKey:StaffID" json:"-"`

	DateTime time.Time         `gorm:"not null;index" json:"date_time"`
	Status   AppointmentStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Notes    string            `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV7())
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

func (a *Appointment) TenantOrganizationID() uuid.UUID { return a.OrganizationID }
func (a *Appointment) BookedClientID() uuid.UUID       { return a.ClientID }
