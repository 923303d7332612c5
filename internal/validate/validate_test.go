package validate

import (
	"net/netip"
	"testing"
	"time"

	"github.com/juju/errors"

	"filament/internal/principal"
)

// TestName rejects blank names.
func TestName(t *testing.T) {
	if err := Name("user", "  "); !errors.Is(err, principal.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if err := Name("user", "alice"); err != nil {
		t.Fatalf("Name: %v", err)
	}
}

// TestHomePath cleans the path and requires a value.
func TestHomePath(t *testing.T) {
	got, err := HomePath(" /srv/ftp/../ftp/alice/ ")
	if err != nil || got != "/srv/ftp/alice" {
		t.Fatalf("HomePath = %q, %v", got, err)
	}
	if _, err := HomePath(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

// TestPrincipal walks the structural checks applied before storage.
func TestPrincipal(t *testing.T) {
	cases := map[string]func(u *principal.User){
		"blank name":     func(u *principal.User) { u.Info.Name = "" },
		"negative limit": func(u *principal.User) { u.Options.MaxConnections = -1 },
		"zero ip":        func(u *principal.User) { u.Security.IPWhitelist = []netip.Addr{{}} },
		"missing alias": func(u *principal.User) {
			u.VirtualDirectories = []principal.VirtualDirectory{{Directory: principal.Directory{Path: "/x"}}}
		},
		"bad type":       func(u *principal.User) { u.SpeedLimits.Upload.Type = 7 },
		"negative speed": func(u *principal.User) { u.SpeedLimits.Download.Rules = []principal.SpeedLimitRule{{Speed: -1}} },
		"long period": func(u *principal.User) {
			u.SpeedLimits.Download.Rules = []principal.SpeedLimitRule{{Period: principal.TimePeriod{End: 25 * time.Hour}}}
		},
		"fractional period": func(u *principal.User) {
			u.SpeedLimits.Download.Rules = []principal.SpeedLimitRule{{Period: principal.TimePeriod{End: time.Millisecond}}}
		},
		"bad date": func(u *principal.User) {
			u.SpeedLimits.Upload.Rules = []principal.SpeedLimitRule{{Date: &principal.Date{Year: 2024, Month: 13, Day: 1}}}
		},
	}
	for name, mutate := range cases {
		u := principal.NewUser("alice")
		mutate(u)
		if err := Principal("user", u); !errors.Is(err, principal.InvalidArgument) {
			t.Fatalf("%s: expected InvalidArgument, got %v", name, err)
		}
	}

	if err := Principal[principal.SecurityOptions]("user group", nil); !errors.Is(err, principal.InvalidArgument) {
		t.Fatalf("nil: expected InvalidArgument, got %v", err)
	}
	ok := principal.NewUser("alice")
	ok.VirtualDirectories = []principal.VirtualDirectory{{Directory: principal.Directory{Path: "/x"}, Alias: "/x"}}
	if err := Principal("user", ok); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}
}

// TestTextRejectsNonXMLCharacters covers control characters and invalid UTF-8.
func TestTextRejectsNonXMLCharacters(t *testing.T) {
	for _, s := range []string{"a\x01b", "a\x02", "\x00", "a\xffb", "\uFFFE", "\uD7FF\x1b"} {
		if Text(s) {
			t.Fatalf("Text(%q) = true", s)
		}
	}
	for _, s := range []string{"", "plain", "tab\tnew\nline\r", "ünïcödé", "\U0001F600"} {
		if !Text(s) {
			t.Fatalf("Text(%q) = false", s)
		}
	}

	cases := map[string]func(u *principal.User){
		"name":        func(u *principal.User) { u.Info.Name = "bad\x02name" },
		"description": func(u *principal.User) { u.Info.Description = "a\x01b" },
		"home path":   func(u *principal.User) { u.HomeDirectory.Path = "/srv/\xff" },
		"alias": func(u *principal.User) {
			u.VirtualDirectories = []principal.VirtualDirectory{{Directory: principal.Directory{Path: "/x"}, Alias: "/\x07"}}
		},
		"hash": func(u *principal.User) { u.Security.PasswordHash = "h\x00" },
		"salt": func(u *principal.User) { u.Security.PasswordSalt = "\xc3" },
	}
	for name, mutate := range cases {
		u := principal.NewUser("alice")
		mutate(u)
		if err := Principal("user", u); !errors.Is(err, principal.InvalidArgument) {
			t.Fatalf("%s: expected InvalidArgument, got %v", name, err)
		}
	}
}
