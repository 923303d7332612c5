// Package instance is the entry point for reading and changing the registry.
// Every call runs in its own provider session: open, act, commit when the
// call mutates, and close on the way out whatever happens.
package instance

import (
	"context"
	"log/slog"

	"github.com/juju/errors"

	"filament/internal/logging"
	"filament/internal/principal"
	"filament/internal/validate"
)

const (
	kindUser  = "user"
	kindGroup = "user group"
)

// Instance enforces the registry's business rules on top of an AccessFactory.
type Instance struct {
	factory principal.AccessFactory
	logger  *slog.Logger
}

// New checks that the registry can be opened before returning.
func New(ctx context.Context, factory principal.AccessFactory, logger *slog.Logger) (*Instance, error) {
	if factory == nil {
		return nil, principal.Errorf(principal.InvalidArgument, "access factory is required")
	}
	s := &Instance{factory: factory, logger: logging.Component(logger, "instance")}
	if err := s.session(ctx, func(principal.AccessProvider) error { return nil }); err != nil {
		return nil, errors.Annotate(err, "opening registry")
	}
	return s, nil
}

// session runs fn against a fresh provider and always closes it.
func (s *Instance) session(ctx context.Context, fn func(p principal.AccessProvider) error) (err error) {
	p, err := s.factory.GetInstance(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = errors.Trace(cerr)
		}
	}()
	return fn(p)
}

// GetUserGroups lists groups matching filter in stored order.
func (s *Instance) GetUserGroups(ctx context.Context, filter principal.EnabledFilter) ([]principal.Info, error) {
	var out []principal.Info
	err := s.session(ctx, func(p principal.AccessProvider) (err error) {
		out, err = p.GetUserGroups(filter)
		return err
	})
	return out, errors.Trace(err)
}

// UserGroupExists reports whether the group is stored.
func (s *Instance) UserGroupExists(ctx context.Context, name string) (bool, error) {
	if err := validate.Name(kindGroup, name); err != nil {
		return false, err
	}
	var ok bool
	err := s.session(ctx, func(p principal.AccessProvider) (err error) {
		ok, err = p.UserGroupExists(name)
		return err
	})
	return ok, errors.Trace(err)
}

// AddUserGroup stores a new group. A taken name fails with DuplicatePrincipal.
func (s *Instance) AddUserGroup(ctx context.Context, g *principal.UserGroup) error {
	if g == nil {
		return principal.Errorf(principal.InvalidArgument, "user group is required")
	}
	if err := validate.Name(kindGroup, g.Info.Name); err != nil {
		return err
	}
	err := s.session(ctx, func(p principal.AccessProvider) error {
		ok, err := p.InsertUserGroup(g)
		if err != nil {
			return err
		}
		if !ok {
			return principal.Errorf(principal.DuplicatePrincipal, "user group %q already exists", g.Info.Name)
		}
		return p.Commit()
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.logger.Info("user group added", "group", g.Info.Name)
	return nil
}

// GetUserGroup returns the stored group. A missing group fails with NotFound.
func (s *Instance) GetUserGroup(ctx context.Context, name string) (*principal.UserGroup, error) {
	if err := validate.Name(kindGroup, name); err != nil {
		return nil, err
	}
	var g *principal.UserGroup
	err := s.session(ctx, func(p principal.AccessProvider) (err error) {
		g, err = p.GetUserGroup(name)
		return err
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return g, nil
}

// UpdateUserGroup replaces the stored group wholesale.
func (s *Instance) UpdateUserGroup(ctx context.Context, g *principal.UserGroup) error {
	if g == nil {
		return principal.Errorf(principal.InvalidArgument, "user group is required")
	}
	if err := validate.Name(kindGroup, g.Info.Name); err != nil {
		return err
	}
	err := s.session(ctx, func(p principal.AccessProvider) error {
		ok, err := p.UpdateUserGroup(g)
		if err != nil {
			return err
		}
		if !ok {
			return principal.UnknownUserGroupError(g.Info.Name)
		}
		return p.Commit()
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.logger.Info("user group updated", "group", g.Info.Name)
	return nil
}

// DeleteUserGroup removes the group. A missing group fails with UnknownUserGroup.
func (s *Instance) DeleteUserGroup(ctx context.Context, name string) error {
	if err := validate.Name(kindGroup, name); err != nil {
		return err
	}
	err := s.session(ctx, func(p principal.AccessProvider) error {
		ok, err := p.UserGroupExists(name)
		if err != nil {
			return err
		}
		if !ok {
			return principal.UnknownUserGroupError(name)
		}
		if err := p.DeleteUserGroup(name); err != nil {
			return err
		}
		return p.Commit()
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.logger.Info("user group deleted", "group", name)
	return nil
}

// GetUsers lists users matching filter in stored order.
func (s *Instance) GetUsers(ctx context.Context, filter principal.EnabledFilter) ([]principal.Info, error) {
	var out []principal.Info
	err := s.session(ctx, func(p principal.AccessProvider) (err error) {
		out, err = p.GetUsers(filter)
		return err
	})
	return out, errors.Trace(err)
}

// UserExists reports whether the user is stored.
func (s *Instance) UserExists(ctx context.Context, name string) (bool, error) {
	if err := validate.Name(kindUser, name); err != nil {
		return false, err
	}
	var ok bool
	err := s.session(ctx, func(p principal.AccessProvider) (err error) {
		ok, err = p.UserExists(name)
		return err
	})
	return ok, errors.Trace(err)
}

// AddUser stores a new user. A taken name fails with DuplicatePrincipal.
func (s *Instance) AddUser(ctx context.Context, u *principal.User) error {
	if u == nil {
		return principal.Errorf(principal.InvalidArgument, "user is required")
	}
	if err := validate.Name(kindUser, u.Info.Name); err != nil {
		return err
	}
	err := s.session(ctx, func(p principal.AccessProvider) error {
		ok, err := p.InsertUser(u)
		if err != nil {
			return err
		}
		if !ok {
			return principal.Errorf(principal.DuplicatePrincipal, "user %q already exists", u.Info.Name)
		}
		return p.Commit()
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.logger.Info("user added", "user", u.Info.Name)
	return nil
}

// GetUser returns the stored user. A missing user fails with NotFound.
func (s *Instance) GetUser(ctx context.Context, name string) (*principal.User, error) {
	if err := validate.Name(kindUser, name); err != nil {
		return nil, err
	}
	var u *principal.User
	err := s.session(ctx, func(p principal.AccessProvider) (err error) {
		u, err = p.GetUser(name)
		return err
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return u, nil
}

// UpdateUser replaces the stored user wholesale.
func (s *Instance) UpdateUser(ctx context.Context, u *principal.User) error {
	if u == nil {
		return principal.Errorf(principal.InvalidArgument, "user is required")
	}
	if err := validate.Name(kindUser, u.Info.Name); err != nil {
		return err
	}
	err := s.session(ctx, func(p principal.AccessProvider) error {
		ok, err := p.UpdateUser(u)
		if err != nil {
			return err
		}
		if !ok {
			return principal.UnknownUserError(u.Info.Name)
		}
		return p.Commit()
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.logger.Info("user updated", "user", u.Info.Name)
	return nil
}

// DeleteUser removes the user. A missing user fails with UnknownUser.
func (s *Instance) DeleteUser(ctx context.Context, name string) error {
	if err := validate.Name(kindUser, name); err != nil {
		return err
	}
	err := s.session(ctx, func(p principal.AccessProvider) error {
		ok, err := p.UserExists(name)
		if err != nil {
			return err
		}
		if !ok {
			return principal.UnknownUserError(name)
		}
		if err := p.DeleteUser(name); err != nil {
			return err
		}
		return p.Commit()
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.logger.Info("user deleted", "user", name)
	return nil
}

// Reload is a hook for a cache in front of the provider. Every call already
// opens a fresh session, so there is nothing to drop.
func (s *Instance) Reload(context.Context) error {
	return nil
}
