package xmlconfig

import (
	"net/netip"
	"strings"

	"github.com/beevik/etree"

	"filament/internal/principal"
)

// Option names on a Group or User element.
const (
	optComments      = "Comments"
	optEnabled       = "Enabled"
	optBypassLimit   = "Bypass server userlimit"
	optUserLimit     = "User Limit"
	optIPLimit       = "IP Limit"
	optForceSSL      = "ForceSsl"
	optPass          = "Pass"
	optSalt          = "Salt"
	legacyOptIPLimit = "Ip Limit"
)

// fields points at the parts of an aggregate that users and groups share.
type fields struct {
	info     *principal.Info
	limits   *principal.ConnectionLimits
	security *principal.SecurityOptions
	home     *principal.Directory
	virtual  *[]principal.VirtualDirectory
	speed    *principal.SpeedLimits
}

func fieldsOf[S any](p *principal.Principal[S]) fields {
	return fields{
		info:     &p.Info,
		limits:   &p.Options,
		security: p.Policy(),
		home:     &p.HomeDirectory,
		virtual:  &p.VirtualDirectories,
		speed:    &p.SpeedLimits,
	}
}

// decodeInfo reads only the identity options, for listings.
func decodeInfo(el *etree.Element) principal.Info {
	info := principal.Info{Name: el.SelectAttrValue(attrName, "")}
	for _, opt := range el.SelectElements(tagOption) {
		switch optionName(opt) {
		case optComments:
			info.Description = opt.Text()
		case optEnabled:
			info.Enabled = parseBool(opt.Text(), false)
		}
	}
	return info
}

func encodeCommon(el *etree.Element, f fields) {
	addOption(el, optBypassLimit, formatBool(f.limits.OverrideServerLimits))
	addOption(el, optUserLimit, formatInt(f.limits.MaxConnections))
	addOption(el, optIPLimit, formatInt(f.limits.MaxConnectionsPerIP))
	addOption(el, optEnabled, formatBool(f.info.Enabled))
	addOption(el, optComments, f.info.Description)
	addOption(el, optForceSSL, formatBool(f.security.SSLRequired))

	encodeSecurity(el.CreateElement(tagIPFilter), *f.security)
	encodePermissions(el.CreateElement(tagPermissions), *f.home, *f.virtual)
	encodeSpeedLimits(el.CreateElement(tagSpeedLimits), *f.speed)
}

func decodeCommon(el *etree.Element, f fields) error {
	f.info.Name = el.SelectAttrValue(attrName, "")
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case tagOption:
			v := child.Text()
			switch optionName(child) {
			case optBypassLimit:
				f.limits.OverrideServerLimits = parseBool(v, false)
			case optUserLimit:
				f.limits.MaxConnections = parseInt(v)
			case optIPLimit, legacyOptIPLimit:
				f.limits.MaxConnectionsPerIP = parseInt(v)
			case optEnabled:
				f.info.Enabled = parseBool(v, false)
			case optComments:
				f.info.Description = v
			case optForceSSL:
				f.security.SSLRequired = parseBool(v, false)
			}
		case tagIPFilter:
			if err := decodeSecurity(child, f.security); err != nil {
				return err
			}
		case tagPermissions:
			if err := decodePermissions(child, f.home, f.virtual); err != nil {
				return err
			}
		case tagSpeedLimits:
			l, err := decodeSpeedLimits(child)
			if err != nil {
				return err
			}
			*f.speed = l
		}
	}
	return nil
}

func encodeSecurity(el *etree.Element, s principal.SecurityOptions) {
	encodeAddresses(el.CreateElement(tagDisallowed), s.IPBlacklist)
	encodeAddresses(el.CreateElement(tagAllowed), s.IPWhitelist)
}

func decodeSecurity(el *etree.Element, s *principal.SecurityOptions) error {
	for _, child := range el.ChildElements() {
		var err error
		switch child.Tag {
		case tagDisallowed:
			s.IPBlacklist, err = decodeAddresses(child)
		case tagAllowed:
			s.IPWhitelist, err = decodeAddresses(child)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeAddresses(el *etree.Element, addrs []netip.Addr) {
	for _, a := range addrs {
		addLeaf(el, tagIP, a.String())
	}
}

func decodeAddresses(el *etree.Element) ([]netip.Addr, error) {
	var out []netip.Addr
	for _, leaf := range el.SelectElements(tagIP) {
		text := strings.TrimSpace(leaf.Text())
		a, err := netip.ParseAddr(text)
		if err != nil {
			return nil, principal.Wrap(principal.SchemaViolation, err, "ip filter entry %q", text)
		}
		out = append(out, a)
	}
	return out, nil
}

// encodeUserGroup writes g into an empty Group element.
func encodeUserGroup(el *etree.Element, g *principal.UserGroup) {
	el.CreateAttr(attrName, g.Info.Name)
	encodeCommon(el, fieldsOf(g))
}

func decodeUserGroup(el *etree.Element) (*principal.UserGroup, error) {
	g := &principal.UserGroup{}
	if err := decodeCommon(el, fieldsOf(g)); err != nil {
		return nil, principal.Wrap(principal.SchemaViolation, err, "group %q", g.Info.Name)
	}
	return g, nil
}

// encodeUser writes u into an empty User element. Credentials come first.
func encodeUser(el *etree.Element, u *principal.User) {
	el.CreateAttr(attrName, u.Info.Name)
	addOption(el, optPass, u.Security.PasswordHash)
	addOption(el, optSalt, u.Security.PasswordSalt)
	encodeCommon(el, fieldsOf(u))
}

func decodeUser(el *etree.Element) (*principal.User, error) {
	u := &principal.User{}
	if err := decodeCommon(el, fieldsOf(u)); err != nil {
		return nil, principal.Wrap(principal.SchemaViolation, err, "user %q", u.Info.Name)
	}
	for _, opt := range el.SelectElements(tagOption) {
		switch optionName(opt) {
		case optPass:
			u.Security.PasswordHash = opt.Text()
		case optSalt:
			u.Security.PasswordSalt = opt.Text()
		}
	}
	return u, nil
}
