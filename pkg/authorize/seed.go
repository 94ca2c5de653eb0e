package authorize

// defaultPolicies is the static permission table. Roles are fixed for this
// system, so the table lives in code instead of a policy store.
//
// Note that several rows here are intentionally broad: an organization
// admin "may update appointments" at the action level, but only the
// appointments inside their organization survive the object predicates and
// query scopes. The two layers always agree; tests assert that.
var defaultPolicies = []PermissionPolicy{
	// System admins: everything.
	{RoleSystemAdmin, WildcardResource, WildcardAction, EffectAllow},

	// Organization admins: run their own organization.
	{RoleOrganizationAdmin, ResourceOrganization, ActionRead, EffectAllow},
	{RoleOrganizationAdmin, ResourceOrganization, ActionUpdate, EffectAllow},
	{RoleOrganizationAdmin, ResourceOrganization, ActionList, EffectAllow},
	{RoleOrganizationAdmin, ResourceService, ActionCreate, EffectAllow},
	{RoleOrganizationAdmin, ResourceService, ActionRead, EffectAllow},
	{RoleOrganizationAdmin, ResourceService, ActionUpdate, EffectAllow},
	{RoleOrganizationAdmin, ResourceService, ActionDelete, EffectAllow},
	{RoleOrganizationAdmin, ResourceService, ActionList, EffectAllow},
	{RoleOrganizationAdmin, ResourceAppointment, ActionCreate, EffectAllow},
	{RoleOrganizationAdmin, ResourceAppointment, ActionRead, EffectAllow},
	{RoleOrganizationAdmin, ResourceAppointment, ActionUpdate, EffectAllow},
	{RoleOrganizationAdmin, ResourceAppointment, ActionDelete, EffectAllow},
	{RoleOrganizationAdmin, ResourceAppointment, ActionList, EffectAllow},
	{RoleOrganizationAdmin, ResourceUser, ActionRead, EffectAllow},
	{RoleOrganizationAdmin, ResourceUser, ActionUpdate, EffectAllow},
	{RoleOrganizationAdmin, ResourceUser, ActionList, EffectAllow},

	// Clients: book appointments, browse the public catalog, manage self.
	{RoleClient, ResourceAppointment, ActionCreate, EffectAllow},
	{RoleClient, ResourceAppointment, ActionRead, EffectAllow},
	{RoleClient, ResourceAppointment, ActionUpdate, EffectAllow},
	{RoleClient, ResourceAppointment, ActionDelete, EffectAllow},
	{RoleClient, ResourceAppointment, ActionList, EffectAllow},
	{RoleClient, ResourceService, ActionRead, EffectAllow},
	{RoleClient, ResourceService, ActionList, EffectAllow},
	{RoleClient, ResourceOrganization, ActionRead, EffectAllow},
	{RoleClient, ResourceOrganization, ActionList, EffectAllow},
	{RoleClient, ResourceUser, ActionRead, EffectAllow},
	{RoleClient, ResourceUser, ActionUpdate, EffectAllow},
}

func seedDefaultPolicies(a *Authorization) error {
	for _, p := range defaultPolicies {
		if _, err := a.enforcer.AddPolicy(string(p.Subject), string(p.Object), string(p.Action), string(p.Effect)); err != nil {
			return err
		}
	}
	return nil
}
