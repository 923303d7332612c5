package principal

import "context"

// AccessProvider is one open session against the registry document.
// Edits stay in memory until Commit; Rollback discards them.
// After Close every method fails with InvalidState.
type AccessProvider interface {
	Commit() error
	Rollback() error
	Close() error

	GetUserGroups(filter EnabledFilter) ([]Info, error)
	UserGroupExists(name string) (bool, error)
	GetUserGroup(name string) (*UserGroup, error)
	InsertUserGroup(g *UserGroup) (bool, error)
	UpdateUserGroup(g *UserGroup) (bool, error)
	DeleteUserGroup(name string) error

	GetUsers(filter EnabledFilter) ([]Info, error)
	UserExists(name string) (bool, error)
	GetUser(name string) (*User, error)
	InsertUser(u *User) (bool, error)
	UpdateUser(u *User) (bool, error)
	DeleteUser(name string) error
}

// AccessFactory opens a fresh AccessProvider for each call. It does not pool.
type AccessFactory interface {
	GetInstance(ctx context.Context) (AccessProvider, error)
}
