package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDuplicateID = errors.New("booking ID already exists")

	ErrDateConflict = errors.New("booking dates conflict with an existing booking")
)
