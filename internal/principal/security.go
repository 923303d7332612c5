package principal

import (
	"net/netip"
	"slices"
)

// SecurityOptions is the transport and address policy of a principal.
type SecurityOptions struct {
	SSLRequired bool         `yaml:"ssl_required"`
	IPWhitelist []netip.Addr `yaml:"ip_whitelist,omitempty"`
	IPBlacklist []netip.Addr `yaml:"ip_blacklist,omitempty"`
}

// UserSecurityOptions adds stored credentials. Hash and salt are opaque here.
type UserSecurityOptions struct {
	SecurityOptions `yaml:",inline"`
	PasswordHash    string `yaml:"password_hash,omitempty"`
	PasswordSalt    string `yaml:"password_salt,omitempty"`
}

// Policy returns the shared part of the security payload.
func (s *SecurityOptions) Policy() *SecurityOptions { return s }

// AddressAllowed applies the blacklist first, then the whitelist if it is non-empty.
func (s SecurityOptions) AddressAllowed(ip netip.Addr) bool {
	ip = ip.Unmap()
	for _, b := range s.IPBlacklist {
		if b.Unmap() == ip {
			return false
		}
	}
	if len(s.IPWhitelist) == 0 {
		return true
	}
	for _, w := range s.IPWhitelist {
		if w.Unmap() == ip {
			return true
		}
	}
	return false
}

func (s SecurityOptions) clone() SecurityOptions {
	s.IPWhitelist = slices.Clone(s.IPWhitelist)
	s.IPBlacklist = slices.Clone(s.IPBlacklist)
	return s
}

func (s UserSecurityOptions) clone() UserSecurityOptions {
	s.SecurityOptions = s.SecurityOptions.clone()
	return s
}
