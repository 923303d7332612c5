package principal

import "github.com/juju/errors"

const (
	// InvalidArgument is raised for blank identifiers or malformed input,
	// before storage is touched.
	InvalidArgument = errors.ConstError("invalid argument")

	// NotFound is raised when a lookup by name finds nothing.
	NotFound = errors.ConstError("not found")

	// DuplicatePrincipal is raised when adding a principal whose name is taken.
	DuplicatePrincipal = errors.ConstError("duplicate principal")

	// UnknownPrincipal is raised when updating or deleting a principal that
	// does not exist. Errors of kind UnknownUser and UnknownUserGroup also
	// match it.
	UnknownPrincipal = errors.ConstError("unknown principal")

	// UnknownUser is the user flavour of UnknownPrincipal.
	UnknownUser = errors.ConstError("unknown user")

	// UnknownUserGroup is the group flavour of UnknownPrincipal.
	UnknownUserGroup = errors.ConstError("unknown user group")

	// AccessFailure is raised when the configuration file is missing,
	// unreadable, locked, or not a well-formed document.
	AccessFailure = errors.ConstError("configuration access failure")

	// SchemaViolation is raised for a field that is present but invalid.
	SchemaViolation = errors.ConstError("schema violation")

	// InvalidState is raised for operations on a closed provider.
	InvalidState = errors.ConstError("invalid state")
)

// Errorf returns a new error of the given kind.
func Errorf(kind errors.ConstError, format string, args ...any) error {
	return errors.WithType(errors.Errorf(format, args...), kind)
}

// Wrap annotates cause and marks it with kind. The cause stays reachable
// through errors.Is and errors.As.
func Wrap(kind errors.ConstError, cause error, format string, args ...any) error {
	return errors.WithType(errors.Annotatef(cause, format, args...), kind)
}

// UnknownUserError reports that no user called name exists.
func UnknownUserError(name string) error {
	return errors.WithType(Errorf(UnknownUser, "unknown user %q", name), UnknownPrincipal)
}

// UnknownUserGroupError reports that no group called name exists.
func UnknownUserGroupError(name string) error {
	return errors.WithType(Errorf(UnknownUserGroup, "unknown user group %q", name), UnknownPrincipal)
}
