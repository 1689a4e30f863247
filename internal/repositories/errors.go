package repositories

import "errors"

var (
	// ErrNotFound marks a lookup for a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a conditional write that lost: the record exists but
	// is not in the state the write expected.
	ErrConflict = errors.New("state conflict")

	// ErrDuplicate marks a uniqueness violation, such as a reused email.
	ErrDuplicate = errors.New("already exists")
)
