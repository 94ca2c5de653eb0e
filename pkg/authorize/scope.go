package authorize

import "gorm.io/gorm"

// Query scopes restrict list and lookup queries to the rows the actor may
// read. Each scope returns, for every role, exactly the set of rows for
// which CanAccess(actor, resource, read, row) holds; the scope tests
// enforce that correspondence against a shared fixture.
//
// Every scope denies outright for a nil actor, and an organization admin
// without an administered organization gets the empty set rather than an
// error.

const denyAll = "1 = 0"

// ScopeAppointments filters appointment queries and fixes their order:
// newest first by date_time, ties broken by primary key ascending.
func ScopeAppointments(actor *Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order("date_time DESC, id ASC")

		switch {
		case actor == nil:
			return db.Where(denyAll)
		case actor.IsSystemAdmin():
			return db
		case actor.IsOrganizationAdmin():
			if actor.OrganizationID == nil {
				return db.Where(denyAll)
			}
			return db.Where("organization_id = ?", *actor.OrganizationID)
		case actor.IsClient():
			return db.Where("client_id = ?", actor.ID)
		default:
			return db.Where(denyAll)
		}
	}
}

// ScopeServices filters service queries. Clients see every service, that
// is the public catalog; organization admins see only their own.
func ScopeServices(actor *Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case actor == nil:
			return db.Where(denyAll)
		case actor.IsSystemAdmin(), actor.IsClient():
			return db
		case actor.IsOrganizationAdmin():
			if actor.OrganizationID == nil {
				return db.Where(denyAll)
			}
			return db.Where("organization_id = ?", *actor.OrganizationID)
		default:
			return db.Where(denyAll)
		}
	}
}

// ScopeOrganizations filters organization queries. Every authenticated
// actor may browse the organization directory.
func ScopeOrganizations(actor *Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor == nil {
			return db.Where(denyAll)
		}
		return db
	}
}

// ScopeUsers filters user queries: system admins see everyone,
// organization admins their members plus themselves, clients only
// themselves.
func ScopeUsers(actor *Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case actor == nil:
			return db.Where(denyAll)
		case actor.IsSystemAdmin():
			return db
		case actor.IsOrganizationAdmin():
			if actor.OrganizationID == nil {
				return db.Where("id = ?", actor.ID)
			}
			return db.Where("organization_id = ? OR id = ?", *actor.OrganizationID, actor.ID)
		default:
			return db.Where("id = ?", actor.ID)
		}
	}
}
