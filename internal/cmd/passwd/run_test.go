package passwd

import (
	"context"
	"path/filepath"
	"testing"

	"filament/internal/auth"
	"filament/internal/cmd/env"
	"filament/internal/principal"
	"filament/internal/xmlconfig"
)

// TestPasswdStoresHashAndSalt sets a password and verifies it against the
// stored credentials.
func TestPasswdStoresHashAndSalt(t *testing.T) {
	ctx := context.Background()
	reg := filepath.Join(t.TempDir(), "filament.xml")
	if err := xmlconfig.Create(nil, reg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	f := env.Flags{Registry: reg, LogLevel: "error"}
	e, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.Instance.AddUser(ctx, principal.NewUser("alice")); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	if err := run(ctx, f, "alice", Options{Password: "s3cret"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	u, err := e.Instance.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	ok, err := auth.VerifyPassword("s3cret", u.Security.PasswordHash, u.Security.PasswordSalt)
	if err != nil || !ok {
		t.Fatalf("stored credentials do not verify: %v, %v", ok, err)
	}

	if err := run(ctx, f, "nobody", Options{Password: "x"}); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}
