package instance

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/juju/errors"

	"filament/internal/principal"
	"filament/internal/xmlconfig"
)

func newInstance(t *testing.T) *Instance {
	t.Helper()
	p := filepath.Join(t.TempDir(), "filament.xml")
	if err := xmlconfig.Create(nil, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	f, err := xmlconfig.NewFactory(p, xmlconfig.Options{})
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	in, err := New(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return in
}

// TestNewRequiresFactory rejects a nil factory.
func TestNewRequiresFactory(t *testing.T) {
	if _, err := New(context.Background(), nil, nil); !errors.Is(err, principal.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

// TestUserLifecycle adds, reads, updates and deletes a user across sessions.
func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	in := newInstance(t)

	u := principal.NewUser("alice")
	u.Info.Description = "first"
	if err := in.AddUser(ctx, u); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := in.AddUser(ctx, principal.NewUser("alice")); !errors.Is(err, principal.DuplicatePrincipal) {
		t.Fatalf("expected DuplicatePrincipal, got %v", err)
	}

	got, err := in.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	got.Info.Description = "second"
	if err := in.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err = in.GetUser(ctx, "alice")
	if err != nil || got.Info.Description != "second" {
		t.Fatalf("GetUser after update = %+v, %v", got, err)
	}

	infos, err := in.GetUsers(ctx, principal.OnlyEnabled)
	if err != nil || len(infos) != 1 || infos[0].Name != "alice" {
		t.Fatalf("GetUsers = %+v, %v", infos, err)
	}

	if err := in.DeleteUser(ctx, "alice"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if ok, err := in.UserExists(ctx, "alice"); err != nil || ok {
		t.Fatalf("UserExists after delete = %v, %v", ok, err)
	}
	if _, err := in.GetUser(ctx, "alice"); !errors.Is(err, principal.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

// TestGroupLifecycle mirrors the user flow for groups.
func TestGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	in := newInstance(t)

	g := principal.NewUserGroup("ops")
	g.Info.Enabled = false
	if err := in.AddUserGroup(ctx, g); err != nil {
		t.Fatalf("AddUserGroup: %v", err)
	}
	if err := in.AddUserGroup(ctx, principal.NewUserGroup("ops")); !errors.Is(err, principal.DuplicatePrincipal) {
		t.Fatalf("expected DuplicatePrincipal, got %v", err)
	}
	if ok, err := in.UserGroupExists(ctx, "ops"); err != nil || !ok {
		t.Fatalf("UserGroupExists = %v, %v", ok, err)
	}
	infos, err := in.GetUserGroups(ctx, principal.OnlyDisabled)
	if err != nil || len(infos) != 1 {
		t.Fatalf("GetUserGroups = %+v, %v", infos, err)
	}
	got, err := in.GetUserGroup(ctx, "ops")
	if err != nil {
		t.Fatalf("GetUserGroup: %v", err)
	}
	got.Info.Enabled = true
	if err := in.UpdateUserGroup(ctx, got); err != nil {
		t.Fatalf("UpdateUserGroup: %v", err)
	}
	if err := in.DeleteUserGroup(ctx, "ops"); err != nil {
		t.Fatalf("DeleteUserGroup: %v", err)
	}
}

// TestUnknownPrincipals classifies update and delete of absent names.
func TestUnknownPrincipals(t *testing.T) {
	ctx := context.Background()
	in := newInstance(t)

	checks := []struct {
		name string
		err  error
		kind error
	}{
		{"UpdateUser", in.UpdateUser(ctx, principal.NewUser("ghost")), principal.UnknownUser},
		{"DeleteUser", in.DeleteUser(ctx, "ghost"), principal.UnknownUser},
		{"UpdateUserGroup", in.UpdateUserGroup(ctx, principal.NewUserGroup("ghost")), principal.UnknownUserGroup},
		{"DeleteUserGroup", in.DeleteUserGroup(ctx, "ghost"), principal.UnknownUserGroup},
	}
	for _, c := range checks {
		if !errors.Is(c.err, c.kind) || !errors.Is(c.err, principal.UnknownPrincipal) {
			t.Fatalf("%s: expected %v and UnknownPrincipal, got %v", c.name, c.kind, c.err)
		}
	}
}

// TestBlankNamesAreRejected fails before the registry is touched.
func TestBlankNamesAreRejected(t *testing.T) {
	ctx := context.Background()
	in := newInstance(t)

	errs := map[string]error{
		"AddUser":         in.AddUser(ctx, principal.NewUser(" ")),
		"AddUser(nil)":    in.AddUser(ctx, nil),
		"UpdateUserGroup": in.UpdateUserGroup(ctx, principal.NewUserGroup("")),
		"DeleteUser":      in.DeleteUser(ctx, ""),
	}
	if _, err := in.GetUserGroup(ctx, ""); err != nil {
		errs["GetUserGroup"] = err
	} else {
		t.Fatalf("GetUserGroup(\"\") succeeded")
	}
	for name, err := range errs {
		if !errors.Is(err, principal.InvalidArgument) {
			t.Fatalf("%s: expected InvalidArgument, got %v", name, err)
		}
	}
}

// TestReload is a no-op that leaves the instance usable.
func TestReload(t *testing.T) {
	ctx := context.Background()
	in := newInstance(t)
	if err := in.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := in.GetUsers(ctx, principal.AnyStatus); err != nil {
		t.Fatalf("GetUsers after Reload: %v", err)
	}
}
