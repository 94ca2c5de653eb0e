package authorize

// objectRules maps each resource/action pair to the predicate that decides
// row-level access. Unlisted pairs deny, so forgetting a rule fails closed.
//
// Create is absent on purpose: there is no object yet at create time, so
// admission is decided by the enforcer and the services' field derivation.
var objectRules = map[Resource]map[Action]Predicate{
	ResourceAppointment: {
		ActionRead:   Or(IsSystemAdmin, OwnsOrganization, IsClientOwner),
		ActionUpdate: Or(IsSystemAdmin, OwnsOrganization, IsClientOwner),
		ActionDelete: Or(IsSystemAdmin, OwnsOrganization, IsClientOwner),
	},
	// Clients browse the whole service catalog; organization admins see
	// only the services they run. The service query scope applies the same
	// split.
	ResourceService: {
		ActionRead:   Or(IsSystemAdmin, IsClientRole, OwnsOrganization),
		ActionUpdate: Or(IsSystemAdmin, OwnsOrganization),
		ActionDelete: Or(IsSystemAdmin, OwnsOrganization),
	},
	ResourceOrganization: {
		ActionRead:   IsAuthenticated,
		ActionUpdate: Or(IsSystemAdmin, OwnsOrganization),
		ActionDelete: IsSystemAdmin,
	},
	ResourceUser: {
		ActionRead:   Or(IsSystemAdmin, OwnsOrganization, IsSelf),
		ActionUpdate: Or(IsSystemAdmin, IsSelf),
		ActionDelete: IsSystemAdmin,
	},
}

// CanAccess decides whether the actor may perform action on this concrete
// object. It complements Enforce: Enforce admits the action for the
// resource kind, CanAccess admits the row.
func CanAccess(actor *Actor, object Resource, action Action, obj any) bool {
	if actor == nil || obj == nil {
		return false
	}
	if actor.IsSuperuser {
		return true
	}

	actions, ok := objectRules[object]
	if !ok {
		return false
	}
	rule, ok := actions[action]
	if !ok {
		return false
	}
	return rule(actor, obj)
}
