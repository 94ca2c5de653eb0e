package authorize

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func newTestAuthorization(t *testing.T) IAuthorization {
	t.Helper()

	auth, err := NewAuthorization()
	if err != nil {
		t.Fatalf("NewAuthorization() error = %v", err)
	}
	return auth
}

func testActor(role Role) *Actor {
	return &Actor{ID: uuid.Must(uuid.NewV7()), Role: role}
}

func TestEnforce(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    *Actor
		object   Resource
		action   Action
		expected bool
	}{
		// System admin
		{"sysadmin creates organization", testActor(RoleSystemAdmin), ResourceOrganization, ActionCreate, true},
		{"sysadmin deletes user", testActor(RoleSystemAdmin), ResourceUser, ActionDelete, true},
		{"sysadmin lists appointments", testActor(RoleSystemAdmin), ResourceAppointment, ActionList, true},

		// Organization admin
		{"orgadmin creates service", testActor(RoleOrganizationAdmin), ResourceService, ActionCreate, true},
		{"orgadmin updates appointment", testActor(RoleOrganizationAdmin), ResourceAppointment, ActionUpdate, true},
		{"orgadmin updates organization", testActor(RoleOrganizationAdmin), ResourceOrganization, ActionUpdate, true},
		{"orgadmin cannot create organization", testActor(RoleOrganizationAdmin), ResourceOrganization, ActionCreate, false},
		{"orgadmin cannot delete organization", testActor(RoleOrganizationAdmin), ResourceOrganization, ActionDelete, false},
		{"orgadmin cannot delete user", testActor(RoleOrganizationAdmin), ResourceUser, ActionDelete, false},

		// Client
		{"client creates appointment", testActor(RoleClient), ResourceAppointment, ActionCreate, true},
		{"client lists services", testActor(RoleClient), ResourceService, ActionList, true},
		{"client reads organization", testActor(RoleClient), ResourceOrganization, ActionRead, true},
		{"client cannot create service", testActor(RoleClient), ResourceService, ActionCreate, false},
		{"client cannot update organization", testActor(RoleClient), ResourceOrganization, ActionUpdate, false},
		{"client cannot delete user", testActor(RoleClient), ResourceUser, ActionDelete, false},

		// Unauthenticated
		{"nil actor denied", nil, ResourceAppointment, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := auth.Enforce(ctx, tt.actor, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if allowed != tt.expected {
				t.Errorf("Enforce() = %v, want %v", allowed, tt.expected)
			}
		})
	}
}

func TestEnforceSuperuserBypass(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	su := testActor(RoleClient)
	su.IsSuperuser = true

	// a plain client cannot create organizations, a superuser client can
	allowed, err := auth.Enforce(ctx, su, ResourceOrganization, ActionCreate)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if !allowed {
		t.Error("superuser should bypass role policy")
	}
}

func TestEnforceGuardrails(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	t.Run("unknown resource", func(t *testing.T) {
		if _, err := auth.Enforce(ctx, testActor(RoleClient), "widget", ActionRead); err == nil {
			t.Error("Enforce() should reject unknown resources")
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		if _, err := auth.Enforce(ctx, testActor(RoleClient), ResourceUser, "teleport"); err == nil {
			t.Error("Enforce() should reject unknown actions")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		if _, err := auth.Enforce(ctx, testActor("superstar"), ResourceUser, ActionRead); err == nil {
			t.Error("Enforce() should reject unknown roles")
		}
	})
}

func TestMustEnforce(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	if err := auth.MustEnforce(ctx, testActor(RoleClient), ResourceAppointment, ActionCreate); err != nil {
		t.Errorf("MustEnforce() allowed case error = %v", err)
	}

	if err := auth.MustEnforce(ctx, testActor(RoleClient), ResourceService, ActionCreate); err != ErrForbidden {
		t.Errorf("MustEnforce() denied case error = %v, want ErrForbidden", err)
	}
}

func TestPermissionManagement(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	client := testActor(RoleClient)

	added, err := auth.AddPermission(ctx, RoleClient, ResourceService, ActionCreate, EffectAllow)
	if err != nil {
		t.Fatalf("AddPermission() error = %v", err)
	}
	if !added {
		t.Error("AddPermission() should report a new policy")
	}

	allowed, err := auth.Enforce(ctx, client, ResourceService, ActionCreate)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if !allowed {
		t.Error("client should be allowed after grant")
	}

	removed, err := auth.RemovePermission(ctx, RoleClient, ResourceService, ActionCreate, EffectAllow)
	if err != nil {
		t.Fatalf("RemovePermission() error = %v", err)
	}
	if !removed {
		t.Error("RemovePermission() should report removal")
	}

	allowed, err = auth.Enforce(ctx, client, ResourceService, ActionCreate)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if allowed {
		t.Error("client should be denied after revoke")
	}
}

func TestAuditedAuthorization(t *testing.T) {
	auth := NewAuditedAuthorization(newTestAuthorization(t), nil)
	ctx := context.Background()

	allowed, err := auth.Enforce(ctx, testActor(RoleSystemAdmin), ResourceUser, ActionDelete)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if !allowed {
		t.Error("audit wrapper should not change decisions")
	}

	if err := auth.MustEnforce(ctx, testActor(RoleClient), ResourceUser, ActionDelete); err != ErrForbidden {
		t.Errorf("MustEnforce() error = %v, want ErrForbidden", err)
	}
}
