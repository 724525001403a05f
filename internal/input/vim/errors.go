package vim

import "errors"

var (
	// ErrCommandExecution wraps every failure raised while executing a
	// resolved command.
	ErrCommandExecution = errors.New("command execution failed")

	// ErrOutOfBounds is returned by motions that cannot move at all.
	ErrOutOfBounds = errors.New("motion out of bounds")

	// ErrNotFound is returned by character searches (f, t) that find nothing.
	ErrNotFound = errors.New("character not found")

	// ErrInvalidRegister is returned for register names that do not exist.
	ErrInvalidRegister = errors.New("invalid register")

	// ErrEmptyRegister is returned when pasting from an empty register.
	ErrEmptyRegister = errors.New("register is empty")
)

// ErrUnresolvedMapping is returned when the target of a key mapping does
// not resolve to complete commands.
var ErrUnresolvedMapping = errors.New("mapping does not resolve")
