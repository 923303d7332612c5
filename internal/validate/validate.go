// Package validate contains input checks applied before the registry is touched.
package validate

import (
	"fmt"
	"net/netip"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"filament/internal/principal"
)

const day = 24 * time.Hour

// Name rejects blank principal names. kind is "user" or "user group".
func Name(kind, s string) error {
	if strings.TrimSpace(s) == "" {
		return principal.Errorf(principal.InvalidArgument, "%s name cannot be blank", kind)
	}
	if !Text(s) {
		return principal.Errorf(principal.InvalidArgument, "%s name %q contains characters XML cannot store", kind, s)
	}
	return nil
}

// Text reports whether s is valid UTF-8 made only of XML 1.0 characters.
func Text(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !xmlChar(r) {
			return false
		}
	}
	return true
}

func xmlChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	default:
		return r >= 0x10000 && r <= utf8.MaxRune
	}
}

// texts lists the free-form strings of p that end up in the document.
func texts[S any](p *principal.Principal[S]) map[string]string {
	out := map[string]string{
		"description": p.Info.Description,
		"home path":   p.HomeDirectory.Path,
	}
	for i, vd := range p.VirtualDirectories {
		out[fmt.Sprintf("virtual directory %d path", i)] = vd.Path
		out[fmt.Sprintf("virtual directory %d alias", i)] = vd.Alias
	}
	if sec, ok := any(&p.Security).(*principal.UserSecurityOptions); ok {
		out["password hash"] = sec.PasswordHash
		out["password salt"] = sec.PasswordSalt
	}
	return out
}

// HomePath cleans a home directory path given on the command line.
func HomePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", principal.Errorf(principal.InvalidArgument, "home path is required")
	}
	return filepath.Clean(p), nil
}

// Principal checks an aggregate before it is serialized.
func Principal[S any](kind string, p *principal.Principal[S]) error {
	if p == nil {
		return principal.Errorf(principal.InvalidArgument, "%s is required", kind)
	}
	if err := Name(kind, p.Info.Name); err != nil {
		return err
	}
	name := p.Info.Name
	for field, v := range texts(p) {
		if !Text(v) {
			return principal.Errorf(principal.InvalidArgument, "%s %q: %s contains characters XML cannot store", kind, name, field)
		}
	}
	if p.Options.MaxConnections < 0 || p.Options.MaxConnectionsPerIP < 0 {
		return principal.Errorf(principal.InvalidArgument, "%s %q: connection limits cannot be negative", kind, name)
	}
	if pol := p.Policy(); pol != nil {
		for _, list := range [][]netip.Addr{pol.IPWhitelist, pol.IPBlacklist} {
			for _, ip := range list {
				if !ip.IsValid() {
					return principal.Errorf(principal.InvalidArgument, "%s %q: invalid IP address in filter", kind, name)
				}
			}
		}
	}
	for i, vd := range p.VirtualDirectories {
		if strings.TrimSpace(vd.Alias) == "" {
			return principal.Errorf(principal.InvalidArgument, "%s %q: virtual directory %d (%s) has no alias", kind, name, i, vd.Path)
		}
	}
	if err := speedLimit(p.SpeedLimits.Download); err != nil {
		return principal.Wrap(principal.InvalidArgument, err, "%s %q: download limit", kind, name)
	}
	if err := speedLimit(p.SpeedLimits.Upload); err != nil {
		return principal.Wrap(principal.InvalidArgument, err, "%s %q: upload limit", kind, name)
	}
	return nil
}

func speedLimit(l principal.SpeedLimit) error {
	if !l.Type.Valid() {
		return principal.Errorf(principal.InvalidArgument, "unknown type %d", int(l.Type))
	}
	if l.ConstantLimit != nil && *l.ConstantLimit < 0 {
		return principal.Errorf(principal.InvalidArgument, "constant limit cannot be negative")
	}
	for i, r := range l.Rules {
		if r.Speed < 0 {
			return principal.Errorf(principal.InvalidArgument, "rule %d: speed cannot be negative", i)
		}
		if !timeOfDay(r.Period.Start) || !timeOfDay(r.Period.End) {
			return principal.Errorf(principal.InvalidArgument, "rule %d: period must be whole seconds within a day", i)
		}
		if d := r.Date; d != nil && (d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Day > 31) {
			return principal.Errorf(principal.InvalidArgument, "rule %d: invalid date %d-%d-%d", i, d.Year, d.Month, d.Day)
		}
	}
	return nil
}

func timeOfDay(d time.Duration) bool {
	return d >= 0 && d < day && d%time.Second == 0
}
