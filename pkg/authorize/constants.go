package authorize

type Action string
type Resource string
type Role string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceUser         Resource = "user"
	ResourceOrganization Resource = "organization"
	ResourceService      Resource = "service"
	ResourceAppointment  Resource = "appointment"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceOrganization: {}, ResourceService: {}, ResourceAppointment: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the policy subjects. Every user carries exactly one of them;
// a superuser flag on top of any role bypasses enforcement entirely.

const (
	WildcardRole Role = "*"

	RoleSystemAdmin       Role = "system_admin"
	RoleOrganizationAdmin Role = "organization_admin"
	RoleClient            Role = "client"
)

var KnownRoles = map[Role]struct{}{
	RoleSystemAdmin:       {},
	RoleOrganizationAdmin: {},
	RoleClient:            {},
}

func IsValidRole(r Role) bool {
	_, ok := KnownRoles[r]
	return ok
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// Permission rows: p, role, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
