package errors

import "errors"

var (
	// requested entity is not found, or it is owned by another user.
	ErrMissing = errors.New("missing")

	// query returns more rows than expected.
	ErrTooMuch = errors.New("too much")

	// entity conflicts with existing one (e.g. email is already registered).
	ErrConflict = errors.New("conflict")

	// the entity is not in a state which allows the operation.
	ErrInvalidState = errors.New("invalid state")

	// the value does not satisfy constraints of the entity.
	ErrInvalidValue = errors.New("invalid value")
)
