package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// TestRunCreatesEmptyRegistry checks the written document and refuses a rerun.
func TestRunCreatesEmptyRegistry(t *testing.T) {
	p := filepath.Join(t.TempDir(), "conf", "filament.xml")
	if err := Run(Options{RegistryPath: p}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"<FilamentServer>", "<Groups/>", "<Users/>"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %s in:\n%s", want, b)
		}
	}
	if err := Run(Options{RegistryPath: p}); err == nil {
		t.Fatalf("expected second run to fail")
	}
}

// TestRunOnMemFs exercises the afero path used by callers with their own fs.
func TestRunOnMemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := Run(Options{RegistryPath: "/srv/filament.xml", Fs: fs}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/srv/filament.xml"); !ok {
		t.Fatalf("expected registry to exist")
	}
}

// TestResolvePassword covers flag, env and the conflict between them.
func TestResolvePassword(t *testing.T) {
	if _, err := ResolvePassword("x", "a", true); err == nil {
		t.Fatalf("expected conflict error")
	}
	got, err := ResolvePassword("x", " hunter2 ", false)
	if err != nil || got != "hunter2" {
		t.Fatalf("flag: got %q, %v", got, err)
	}
	t.Setenv(PasswordEnv, "from-env")
	got, err = ResolvePassword("x", "", true)
	if err != nil || got != "from-env" {
		t.Fatalf("env: got %q, %v", got, err)
	}
	t.Setenv(PasswordEnv, "  ")
	if _, err := ResolvePassword("x", "", true); err == nil {
		t.Fatalf("expected error for empty env")
	}
}
