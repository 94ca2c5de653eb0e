package authorize

import "github.com/google/uuid"

// Actor is the authenticated principal every authorization decision runs
// against. It is resolved once per request by the auth middleware and then
// passed by value through services, so a decision never re-reads the
// database mid-request.
type Actor struct {
	ID          uuid.UUID
	Role        Role
	IsSuperuser bool

	// OrganizationID is the organization this actor administers, when the
	// actor is an organization admin. Nil for every other role and for
	// admins that have not been attached to an organization yet.
	OrganizationID *uuid.UUID
}

func (a *Actor) IsSystemAdmin() bool {
	return a != nil && (a.Role == RoleSystemAdmin || a.IsSuperuser)
}

func (a *Actor) IsOrganizationAdmin() bool {
	return a != nil && a.Role == RoleOrganizationAdmin
}

func (a *Actor) IsClient() bool {
	return a != nil && a.Role == RoleClient
}

// AdministersOrg reports whether the actor administers the given organization.
func (a *Actor) AdministersOrg(orgID uuid.UUID) bool {
	return a != nil && a.OrganizationID != nil && *a.OrganizationID == orgID
}
