package toggle

import "github.com/pkg/errors"

var (
	// ErrInvalidDeclaration is returned by New when a group or flag
	// declaration breaks the rules listed in the package documentation.
	ErrInvalidDeclaration = errors.New("invalid flag declaration")

	// ErrUnknownFlag is returned by name-based operations when the name
	// does not match any flag of the group.
	ErrUnknownFlag = errors.New("unknown flag")

	// ErrUnknownGroup is returned by the Registry for unregistered groups.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrDuplicateGroup is returned when registering a second group with
	// the same name.
	ErrDuplicateGroup = errors.New("duplicate group")
)
