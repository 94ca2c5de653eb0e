package user

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/pkg/authorize"
)

type fixture struct {
	db  *gorm.DB
	svc Service

	org model.Organization

	sysAdmin *authorize.Actor
	adminA   *authorize.Actor
	clientC  *authorize.Actor
	clientD  *authorize.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "user.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	auth, err := authorize.NewAuthorization()
	if err != nil {
		t.Fatalf("failed to build authorization: %v", err)
	}

	f := &fixture{db: db, svc: New(db, auth)}

	f.org = model.Organization{Name: "Clinic A", IsActive: true}
	if err := db.Create(&f.org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}

	newUser := func(email string, role authorize.Role, orgID *uuid.UUID) model.User {
		u := model.User{
			ID: uuid.Must(uuid.NewV7()), Email: email, PasswordHash: "x",
			Role: role, IsActive: true, OrganizationID: orgID,
		}
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user %s: %v", email, err)
		}
		return u
	}

	sys := newUser("root@example.com", authorize.RoleSystemAdmin, nil)
	adminA := newUser("admin-a@example.com", authorize.RoleOrganizationAdmin, &f.org.ID)
	clientC := newUser("client-c@example.com", authorize.RoleClient, nil)
	clientD := newUser("client-d@example.com", authorize.RoleClient, nil)

	if err := db.Model(&f.org).Update("admin_id", adminA.ID).Error; err != nil {
		t.Fatalf("attach admin: %v", err)
	}

	f.sysAdmin = &authorize.Actor{ID: sys.ID, Role: authorize.RoleSystemAdmin}
	f.adminA = &authorize.Actor{ID: adminA.ID, Role: authorize.RoleOrganizationAdmin, OrganizationID: &f.org.ID}
	f.clientC = &authorize.Actor{ID: clientC.ID, Role: authorize.RoleClient}
	f.clientD = &authorize.Actor{ID: clientD.ID, Role: authorize.RoleClient}

	return f
}

func TestListScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("system admin sees everyone", func(t *testing.T) {
		users, err := f.svc.List(ctx, f.sysAdmin)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(users) != 4 {
			t.Errorf("got %d users, want 4", len(users))
		}
	})

	t.Run("org admin sees members plus self", func(t *testing.T) {
		users, err := f.svc.List(ctx, f.adminA)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(users) != 1 {
			t.Errorf("got %d users, want 1 (the admin themselves)", len(users))
		}
	})

	t.Run("client sees only self", func(t *testing.T) {
		users, err := f.svc.List(ctx, f.clientC)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(users) != 1 || users[0].ID != f.clientC.ID {
			t.Errorf("client list should contain exactly themselves, got %d", len(users))
		}
	})
}

func TestGetAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("client reading a stranger gets not found", func(t *testing.T) {
		if _, err := f.svc.Get(ctx, f.clientC, f.clientD.ID); err != ErrNotFound {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("client reads self", func(t *testing.T) {
		u, err := f.svc.Get(ctx, f.clientC, f.clientC.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if u.ID != f.clientC.ID {
			t.Errorf("got user %v", u.ID)
		}
	})

	t.Run("me", func(t *testing.T) {
		u, err := f.svc.Me(ctx, f.clientC)
		if err != nil {
			t.Fatalf("Me() error = %v", err)
		}
		if u.ID != f.clientC.ID {
			t.Errorf("Me() returned %v", u.ID)
		}
		if _, err := f.svc.Me(ctx, nil); err != authorize.ErrForbidden {
			t.Errorf("anonymous Me() error = %v, want ErrForbidden", err)
		}
	})
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("system admin provisions staff", func(t *testing.T) {
		u, err := f.svc.Create(ctx, f.sysAdmin, CreateRequest{
			Email:          "staff@example.com",
			Password:       "long-enough",
			Role:           authorize.RoleOrganizationAdmin,
			OrganizationID: &f.org.ID,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if u.Role != authorize.RoleOrganizationAdmin {
			t.Errorf("Role = %q", u.Role)
		}
	})

	t.Run("non-admins cannot provision", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.adminA, CreateRequest{Email: "x@example.com", Password: "long-enough", Role: authorize.RoleClient})
		if err != authorize.ErrForbidden {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		if _, err := f.svc.Create(ctx, f.sysAdmin, CreateRequest{Email: "bad", Password: "long-enough", Role: authorize.RoleClient}); err != ErrInvalidEmail {
			t.Errorf("bad email error = %v", err)
		}
		if _, err := f.svc.Create(ctx, f.sysAdmin, CreateRequest{Email: "ok@example.com", Password: "short", Role: authorize.RoleClient}); err != ErrPasswordTooShort {
			t.Errorf("short password error = %v", err)
		}
		if _, err := f.svc.Create(ctx, f.sysAdmin, CreateRequest{Email: "ok@example.com", Password: "long-enough", Role: "wizard"}); err != ErrInvalidRole {
			t.Errorf("bad role error = %v", err)
		}
		if _, err := f.svc.Create(ctx, f.sysAdmin, CreateRequest{Email: "client-c@example.com", Password: "long-enough", Role: authorize.RoleClient}); err != ErrEmailAlreadyExists {
			t.Errorf("duplicate email error = %v", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("client edits own profile", func(t *testing.T) {
		first := "Tigist"
		u, err := f.svc.Update(ctx, f.clientC, f.clientC.ID, UpdateRequest{FirstName: &first})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		_ = u

		var stored model.User
		if err := f.db.First(&stored, "id = ?", f.clientC.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.FirstName != "Tigist" {
			t.Errorf("FirstName = %q", stored.FirstName)
		}
	})

	t.Run("client cannot promote themselves", func(t *testing.T) {
		role := authorize.RoleSystemAdmin
		if _, err := f.svc.Update(ctx, f.clientC, f.clientC.ID, UpdateRequest{Role: &role}); err != ErrRoleChangeForbidden {
			t.Errorf("error = %v, want ErrRoleChangeForbidden", err)
		}
	})

	t.Run("client cannot edit a stranger", func(t *testing.T) {
		first := "Hacked"
		if _, err := f.svc.Update(ctx, f.clientC, f.clientD.ID, UpdateRequest{FirstName: &first}); err != ErrNotFound {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("system admin changes roles", func(t *testing.T) {
		role := authorize.RoleOrganizationAdmin
		if _, err := f.svc.Update(ctx, f.sysAdmin, f.clientD.ID, UpdateRequest{Role: &role}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		var stored model.User
		if err := f.db.First(&stored, "id = ?", f.clientD.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.Role != authorize.RoleOrganizationAdmin {
			t.Errorf("Role = %q", stored.Role)
		}
	})

	t.Run("only system admins toggle is_active", func(t *testing.T) {
		off := false
		if _, err := f.svc.Update(ctx, f.clientC, f.clientC.ID, UpdateRequest{IsActive: &off}); err != authorize.ErrForbidden {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("client cannot delete", func(t *testing.T) {
		if err := f.svc.Delete(ctx, f.clientC, f.clientC.ID); err != authorize.ErrForbidden {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("system admin deletes", func(t *testing.T) {
		if err := f.svc.Delete(ctx, f.sysAdmin, f.clientD.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := f.svc.Get(ctx, f.sysAdmin, f.clientD.ID); err != ErrNotFound {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestResolveActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("organization admin gets their administered org", func(t *testing.T) {
		actor, err := ResolveActor(ctx, f.db, f.adminA.ID)
		if err != nil {
			t.Fatalf("ResolveActor() error = %v", err)
		}
		if actor.Role != authorize.RoleOrganizationAdmin {
			t.Errorf("Role = %q", actor.Role)
		}
		if actor.OrganizationID == nil || *actor.OrganizationID != f.org.ID {
			t.Error("administered organization not resolved")
		}
	})

	t.Run("unattached admin resolves with no organization", func(t *testing.T) {
		u := model.User{
			ID: uuid.Must(uuid.NewV7()), Email: "floating@example.com", PasswordHash: "x",
			Role: authorize.RoleOrganizationAdmin, IsActive: true,
		}
		if err := f.db.Create(&u).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
		actor, err := ResolveActor(ctx, f.db, u.ID)
		if err != nil {
			t.Fatalf("ResolveActor() error = %v", err)
		}
		if actor.OrganizationID != nil {
			t.Error("OrganizationID should be nil")
		}
	})

	t.Run("client resolves plainly", func(t *testing.T) {
		actor, err := ResolveActor(ctx, f.db, f.clientC.ID)
		if err != nil {
			t.Fatalf("ResolveActor() error = %v", err)
		}
		if actor.Role != authorize.RoleClient || actor.OrganizationID != nil {
			t.Errorf("actor = %+v", actor)
		}
	})

	t.Run("inactive account is refused", func(t *testing.T) {
		if err := f.db.Model(&model.User{}).Where("id = ?", f.clientC.ID).Update("is_active", false).Error; err != nil {
			t.Fatalf("disable: %v", err)
		}
		if _, err := ResolveActor(ctx, f.db, f.clientC.ID); err != authorize.ErrForbidden {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := ResolveActor(ctx, f.db, uuid.Must(uuid.NewV7())); err != ErrNotFound {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
