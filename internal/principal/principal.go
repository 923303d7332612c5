// Package principal defines the users and groups stored in the Filament registry.
// Values are plain data: a copy returned by storage never aliases the stored document.
package principal

import (
	"slices"
	"strings"
)

// Info identifies a principal. Name is compared exactly as stored.
type Info struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Enabled     bool   `yaml:"enabled"`
}

// ConnectionLimits caps concurrent sessions. Zero means unlimited.
type ConnectionLimits struct {
	OverrideServerLimits bool `yaml:"override_server_limits"`
	MaxConnections       int  `yaml:"max_connections"`
	MaxConnectionsPerIP  int  `yaml:"max_connections_per_ip"`
}

// Principal is the aggregate shared by users and groups.
// S is the security payload: SecurityOptions for groups, UserSecurityOptions for users.
type Principal[S any] struct {
	Info               Info               `yaml:"info"`
	Options            ConnectionLimits   `yaml:"options"`
	Security           S                  `yaml:"security"`
	HomeDirectory      Directory          `yaml:"home"`
	VirtualDirectories []VirtualDirectory `yaml:"virtual_directories,omitempty"`
	SpeedLimits        SpeedLimits        `yaml:"speed_limits"`
}

// UserGroup is a named group of users sharing a policy.
type UserGroup = Principal[SecurityOptions]

// User is an account; it adds credentials to the group-level policy.
type User = Principal[UserSecurityOptions]

// NewUserGroup returns an enabled, otherwise empty group.
func NewUserGroup(name string) *UserGroup {
	return &UserGroup{Info: Info{Name: name, Enabled: true}}
}

// NewUser returns an enabled, otherwise empty user.
func NewUser(name string) *User {
	return &User{Info: Info{Name: name, Enabled: true}}
}

// Name returns the principal's identity.
func (p *Principal[S]) Name() string {
	return p.Info.Name
}

// EnabledFilter selects principals by their Enabled flag.
type EnabledFilter int

const (
	AnyStatus EnabledFilter = iota
	OnlyEnabled
	OnlyDisabled
)

// Match reports whether a principal with the given flag passes the filter.
func (f EnabledFilter) Match(enabled bool) bool {
	switch f {
	case OnlyEnabled:
		return enabled
	case OnlyDisabled:
		return !enabled
	default:
		return true
	}
}

// ParseEnabledFilter maps "any", "enabled" and "disabled" to a filter.
func ParseEnabledFilter(s string) (EnabledFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return AnyStatus, nil
	case "enabled", "on":
		return OnlyEnabled, nil
	case "disabled", "off":
		return OnlyDisabled, nil
	default:
		return AnyStatus, Errorf(InvalidArgument, "unknown status filter %q", s)
	}
}

func (f EnabledFilter) String() string {
	switch f {
	case OnlyEnabled:
		return "enabled"
	case OnlyDisabled:
		return "disabled"
	default:
		return "any"
	}
}

// Clone returns a deep copy that shares no slices or pointers with p.
func (p *Principal[S]) Clone() *Principal[S] {
	c := *p
	if s, ok := any(p.Security).(interface{ clone() S }); ok {
		c.Security = s.clone()
	}
	c.VirtualDirectories = slices.Clone(p.VirtualDirectories)
	c.SpeedLimits.Download = p.SpeedLimits.Download.clone()
	c.SpeedLimits.Upload = p.SpeedLimits.Upload.clone()
	return &c
}

// Policy returns the group-level security options of any principal.
func (p *Principal[S]) Policy() *SecurityOptions {
	if s, ok := any(&p.Security).(interface{ Policy() *SecurityOptions }); ok {
		return s.Policy()
	}
	return nil
}
