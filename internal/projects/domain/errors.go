package domain

import "errors"

var (
	// ErrProjectNotFound is returned when a project id resolves to nothing.
	ErrProjectNotFound = errors.New("project not found")
)
