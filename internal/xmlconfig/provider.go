package xmlconfig

import (
	"io"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/juju/errors"
	"github.com/spf13/afero"

	"filament/internal/logging"
	"filament/internal/principal"
	"filament/internal/validate"
)

const (
	kindUser  = "user"
	kindGroup = "user group"
)

// Provider is one session against the registry file. It holds the file open
// and locked until Close, and owns the parsed document: nothing returned to
// callers aliases it.
type Provider struct {
	path    string
	file    afero.File
	release func() error
	logger  *slog.Logger

	doc    *etree.Document
	users  *etree.Element
	groups *etree.Element
	closed bool
}

var _ principal.AccessProvider = (*Provider)(nil)

// newProvider takes ownership of file and release; both are released if
// the initial load fails.
func newProvider(path string, file afero.File, release func() error, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	p := &Provider{path: path, file: file, release: release, logger: logger}
	if err := p.Load(); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// Load reads the document from the start of the file, replacing the
// in-memory tree.
func (p *Provider) Load() error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return principal.Wrap(principal.AccessFailure, err, "rewinding %s", p.path)
	}
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(p.file); err != nil {
		return principal.Wrap(principal.AccessFailure, err, "reading %s", p.path)
	}
	root := doc.Root()
	if root == nil {
		return principal.Errorf(principal.AccessFailure, "%s has no root element", p.path)
	}
	p.doc = doc
	p.users = root.SelectElement(tagUsers)
	p.groups = root.SelectElement(tagGroups)
	return nil
}

// Commit rewrites the whole file with the in-memory document. A failure part
// way through leaves the file contents undefined; call Rollback before going on.
func (p *Provider) Commit() error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return principal.Wrap(principal.AccessFailure, err, "rewinding %s", p.path)
	}
	if err := p.file.Truncate(0); err != nil {
		return principal.Wrap(principal.AccessFailure, err, "truncating %s", p.path)
	}
	indent(p.doc)
	n, err := p.doc.WriteTo(p.file)
	if err != nil {
		return principal.Wrap(principal.AccessFailure, err, "writing %s", p.path)
	}
	if err := p.file.Sync(); err != nil {
		return principal.Wrap(principal.AccessFailure, err, "syncing %s", p.path)
	}
	p.logger.Debug("registry committed", "path", p.path, "bytes", n)
	return nil
}

// Rollback discards uncommitted edits by reloading from the file.
func (p *Provider) Rollback() error {
	if err := p.Load(); err != nil {
		return errors.Trace(err)
	}
	p.logger.Debug("registry rolled back", "path", p.path)
	return nil
}

// Close releases the file and its lock. Further calls fail with InvalidState.
func (p *Provider) Close() error {
	if p.closed {
		return principal.Errorf(principal.InvalidState, "provider for %s already closed", p.path)
	}
	p.closed = true
	p.doc, p.users, p.groups = nil, nil, nil
	err := p.file.Close()
	if p.release != nil {
		if rerr := p.release(); err == nil {
			err = rerr
		}
	}
	if err != nil {
		return principal.Wrap(principal.AccessFailure, err, "closing %s", p.path)
	}
	return nil
}

func (p *Provider) checkOpen() error {
	if p.closed {
		return principal.Errorf(principal.InvalidState, "provider for %s is closed", p.path)
	}
	return nil
}

// lookup finds the element in container whose Name attribute equals name.
func lookup(container *etree.Element, tag, name string) *etree.Element {
	if container == nil {
		return nil
	}
	for _, el := range container.SelectElements(tag) {
		if el.SelectAttrValue(attrName, "") == name {
			return el
		}
	}
	return nil
}

// container returns the Users or Groups element, creating it on first insert.
func (p *Provider) container(tag string) *etree.Element {
	switch tag {
	case tagUsers:
		if p.users == nil {
			p.users = p.doc.Root().CreateElement(tagUsers)
		}
		return p.users
	default:
		if p.groups == nil {
			p.groups = p.doc.Root().CreateElement(tagGroups)
		}
		return p.groups
	}
}

// reset empties el so it can be re-serialized from scratch.
func reset(el *etree.Element) {
	el.Child = nil
	el.Attr = nil
}

func (p *Provider) exists(container *etree.Element, tag, kind, name string) (bool, error) {
	if err := p.checkOpen(); err != nil {
		return false, err
	}
	if err := validate.Name(kind, name); err != nil {
		return false, err
	}
	return lookup(container, tag, name) != nil, nil
}

func (p *Provider) list(container *etree.Element, tag string, filter principal.EnabledFilter) ([]principal.Info, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	out := []principal.Info{}
	if container == nil {
		return out, nil
	}
	for _, el := range container.SelectElements(tag) {
		info := decodeInfo(el)
		if filter.Match(info.Enabled) {
			out = append(out, info)
		}
	}
	return out, nil
}

func (p *Provider) find(container *etree.Element, tag, kind, name string) (*etree.Element, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if err := validate.Name(kind, name); err != nil {
		return nil, err
	}
	el := lookup(container, tag, name)
	if el == nil {
		return nil, principal.Errorf(principal.NotFound, "%s %q not found", kind, name)
	}
	return el, nil
}

func (p *Provider) remove(container *etree.Element, tag, kind, name string) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if err := validate.Name(kind, name); err != nil {
		return err
	}
	if el := lookup(container, tag, name); el != nil {
		container.RemoveChild(el)
	}
	return nil
}

// UserGroupExists reports whether a group called name is stored.
func (p *Provider) UserGroupExists(name string) (bool, error) {
	return p.exists(p.groups, tagGroup, kindGroup, name)
}

// GetUserGroups lists groups in document order.
func (p *Provider) GetUserGroups(filter principal.EnabledFilter) ([]principal.Info, error) {
	return p.list(p.groups, tagGroup, filter)
}

// GetUserGroup decodes the group called name.
func (p *Provider) GetUserGroup(name string) (*principal.UserGroup, error) {
	el, err := p.find(p.groups, tagGroup, kindGroup, name)
	if err != nil {
		return nil, err
	}
	return decodeUserGroup(el)
}

// InsertUserGroup appends g and reports false if the name is already taken.
func (p *Provider) InsertUserGroup(g *principal.UserGroup) (bool, error) {
	if err := p.checkOpen(); err != nil {
		return false, err
	}
	if err := validate.Principal(kindGroup, g); err != nil {
		return false, err
	}
	if lookup(p.groups, tagGroup, g.Info.Name) != nil {
		return false, nil
	}
	encodeUserGroup(p.container(tagGroups).CreateElement(tagGroup), g)
	return true, nil
}

// UpdateUserGroup replaces the stored group with g, or reports false if
// there is none.
func (p *Provider) UpdateUserGroup(g *principal.UserGroup) (bool, error) {
	if err := p.checkOpen(); err != nil {
		return false, err
	}
	if err := validate.Principal(kindGroup, g); err != nil {
		return false, err
	}
	el := lookup(p.groups, tagGroup, g.Info.Name)
	if el == nil {
		return false, nil
	}
	reset(el)
	encodeUserGroup(el, g)
	return true, nil
}

// DeleteUserGroup removes the group if present.
func (p *Provider) DeleteUserGroup(name string) error {
	return p.remove(p.groups, tagGroup, kindGroup, name)
}

// UserExists reports whether a user called name is stored.
func (p *Provider) UserExists(name string) (bool, error) {
	return p.exists(p.users, tagUser, kindUser, name)
}

// GetUsers lists users in document order.
func (p *Provider) GetUsers(filter principal.EnabledFilter) ([]principal.Info, error) {
	return p.list(p.users, tagUser, filter)
}

// GetUser decodes the user called name.
func (p *Provider) GetUser(name string) (*principal.User, error) {
	el, err := p.find(p.users, tagUser, kindUser, name)
	if err != nil {
		return nil, err
	}
	return decodeUser(el)
}

// InsertUser appends u and reports false if the name is already taken.
func (p *Provider) InsertUser(u *principal.User) (bool, error) {
	if err := p.checkOpen(); err != nil {
		return false, err
	}
	if err := validate.Principal(kindUser, u); err != nil {
		return false, err
	}
	if lookup(p.users, tagUser, u.Info.Name) != nil {
		return false, nil
	}
	encodeUser(p.container(tagUsers).CreateElement(tagUser), u)
	return true, nil
}

// UpdateUser replaces the stored user with u, or reports false if there is none.
func (p *Provider) UpdateUser(u *principal.User) (bool, error) {
	if err := p.checkOpen(); err != nil {
		return false, err
	}
	if err := validate.Principal(kindUser, u); err != nil {
		return false, err
	}
	el := lookup(p.users, tagUser, u.Info.Name)
	if el == nil {
		return false, nil
	}
	reset(el)
	encodeUser(el, u)
	return true, nil
}

// DeleteUser removes the user if present.
func (p *Provider) DeleteUser(name string) error {
	return p.remove(p.users, tagUser, kindUser, name)
}
