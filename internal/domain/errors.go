package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPermissionDenied indicates the caller lacks the identity required for the operation.
	ErrPermissionDenied = errors.New("permission denied")
)
