package xmlconfig

import (
	"fmt"
	"math/rand/v2"
	"net/netip"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"filament/internal/principal"
)

// cmpOpts compares aggregates field by field; nil and empty slices are equal.
var cmpOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b netip.Addr) bool { return a == b }),
}

// gen builds random but serializable aggregates from a fixed seed.
type gen struct {
	r *rand.Rand
	n int
}

func newGen(seed uint64) *gen {
	return &gen{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

const textAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-.&<>\"'/"

func (g *gen) text(min, max int) string {
	n := min + g.r.IntN(max-min+1)
	b := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b = append(b, textAlphabet[g.r.IntN(len(textAlphabet))])
	}
	return string(b)
}

// blank returns a run of spaces, sometimes empty.
func (g *gen) blank() string {
	return strings.Repeat(" ", g.r.IntN(4))
}

func (g *gen) name(prefix string) string {
	g.n++
	return fmt.Sprintf("%s-%d %s", prefix, g.n, g.text(0, 6))
}

func (g *gen) bool() bool { return g.r.IntN(2) == 1 }

func (g *gen) addr() netip.Addr {
	if g.bool() {
		var b [4]byte
		for i := range b {
			b[i] = byte(g.r.IntN(256))
		}
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	for i := range b {
		b[i] = byte(g.r.IntN(256))
	}
	return netip.AddrFrom16(b)
}

func (g *gen) addrs() []netip.Addr {
	var out []netip.Addr
	for i := g.r.IntN(4); i > 0; i-- {
		out = append(out, g.addr())
	}
	return out
}

func (g *gen) directory() principal.Directory {
	return principal.Directory{
		Path: "/srv/" + g.text(1, 10),
		Files: principal.FilePermissions{
			Read: g.bool(), Write: g.bool(), Delete: g.bool(), Append: g.bool(),
		},
		Folders: principal.FolderPermissions{
			Create: g.bool(), Delete: g.bool(), List: g.bool(), Subdirectories: g.bool(),
		},
		AutoCreate: g.bool(),
	}
}

func (g *gen) offset() time.Duration {
	return time.Duration(g.r.IntN(24*60*60)) * time.Second
}

func (g *gen) rule() principal.SpeedLimitRule {
	r := principal.SpeedLimitRule{
		Speed:  g.r.IntN(1 << 20),
		Period: principal.TimePeriod{Start: g.offset(), End: g.offset()},
	}
	if g.bool() {
		r.Days = principal.DaysOfWeek(1 + g.r.IntN(int(principal.EveryDay)))
	}
	if g.bool() {
		r.Date = &principal.Date{
			Year:  2000 + g.r.IntN(50),
			Month: time.Month(1 + g.r.IntN(12)),
			Day:   1 + g.r.IntN(28),
		}
	}
	return r
}

func (g *gen) speedLimit() principal.SpeedLimit {
	l := principal.SpeedLimit{
		Type:                principal.SpeedLimitType(g.r.IntN(3)),
		OverrideServerLimit: g.bool(),
	}
	if g.bool() {
		v := g.r.IntN(100000)
		l.ConstantLimit = &v
	}
	for i := g.r.IntN(4); i > 0; i-- {
		l.Rules = append(l.Rules, g.rule())
	}
	return l
}

func (g *gen) security() principal.SecurityOptions {
	return principal.SecurityOptions{
		SSLRequired: g.bool(),
		IPWhitelist: g.addrs(),
		IPBlacklist: g.addrs(),
	}
}

func fill[S any](g *gen, p *principal.Principal[S]) {
	p.Info.Description = g.text(0, 20)
	if g.r.IntN(4) == 0 {
		p.Info.Description = g.blank()
	}
	p.Info.Enabled = g.bool()
	p.Options = principal.ConnectionLimits{
		OverrideServerLimits: g.bool(),
		MaxConnections:       g.r.IntN(100),
		MaxConnectionsPerIP:  g.r.IntN(10),
	}
	p.HomeDirectory = g.directory()
	for i := g.r.IntN(4); i > 0; i-- {
		p.VirtualDirectories = append(p.VirtualDirectories, principal.VirtualDirectory{
			Directory: g.directory(),
			Alias:     "/" + g.text(1, 8),
		})
	}
	p.SpeedLimits.Download = g.speedLimit()
	p.SpeedLimits.Upload = g.speedLimit()
}

func (g *gen) group() *principal.UserGroup {
	p := principal.NewUserGroup(g.name("group"))
	p.Security = g.security()
	fill(g, p)
	return p
}

func (g *gen) user() *principal.User {
	p := principal.NewUser(g.name("user"))
	p.Security = principal.UserSecurityOptions{
		SecurityOptions: g.security(),
		PasswordHash:    g.blank() + g.text(10, 40),
		PasswordSalt:    g.text(8, 16) + g.blank(),
	}
	fill(g, p)
	return p
}
