package authorize

import "github.com/google/uuid"

// Predicate answers whether an actor may touch one concrete object. A
// predicate is a pure function of the actor and the object, so every rule
// can be expressed by combining a handful of small ones instead of
// hand-writing one check per endpoint.
type Predicate func(actor *Actor, obj any) bool

func And(ps ...Predicate) Predicate {
	return func(actor *Actor, obj any) bool {
		for _, p := range ps {
			if !p(actor, obj) {
				return false
			}
		}
		return true
	}
}

func Or(ps ...Predicate) Predicate {
	return func(actor *Actor, obj any) bool {
		for _, p := range ps {
			if p(actor, obj) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(actor *Actor, obj any) bool {
		return !p(actor, obj)
	}
}

// ----------------------------
// Object facets
// ----------------------------
//
// Predicates see objects through small interfaces rather than concrete
// model types, so this package never imports the model package. A model
// type opts into a rule by implementing the facet it needs.

// organizationScoped is any object that belongs to a tenant organization.
// An organization belongs to itself.
type organizationScoped interface {
	TenantOrganizationID() uuid.UUID
}

// clientOwned is any object booked by a client user.
type clientOwned interface {
	BookedClientID() uuid.UUID
}

// principal is any object that is itself a user account.
type principal interface {
	PrincipalID() uuid.UUID
}

// ----------------------------
// Base predicates
// ----------------------------

// IsAuthenticated holds for any resolved actor.
func IsAuthenticated(actor *Actor, _ any) bool {
	return actor != nil
}

// IsSystemAdmin holds for system admins and superusers regardless of object.
func IsSystemAdmin(actor *Actor, _ any) bool {
	return actor.IsSystemAdmin()
}

// IsClientRole holds for client-role actors regardless of object.
func IsClientRole(actor *Actor, _ any) bool {
	return actor.IsClient()
}

// OwnsOrganization holds when the actor administers the organization the
// object belongs to.
func OwnsOrganization(actor *Actor, obj any) bool {
	if actor == nil || actor.OrganizationID == nil {
		return false
	}
	scoped, ok := obj.(organizationScoped)
	if !ok {
		return false
	}
	return *actor.OrganizationID == scoped.TenantOrganizationID()
}

// IsClientOwner holds when the actor is the client the object was booked for.
func IsClientOwner(actor *Actor, obj any) bool {
	if actor == nil || !actor.IsClient() {
		return false
	}
	owned, ok := obj.(clientOwned)
	if !ok {
		return false
	}
	return actor.ID == owned.BookedClientID()
}

// IsSelf holds when the object is the actor's own user account.
func IsSelf(actor *Actor, obj any) bool {
	if actor == nil {
		return false
	}
	p, ok := obj.(principal)
	if !ok {
		return false
	}
	return actor.ID == p.PrincipalID()
}
