package errors

import "errors"

var (
	ErrNotFound = errors.New("owner not found")

	ErrEmailTaken = errors.New("email is already registered")
)
