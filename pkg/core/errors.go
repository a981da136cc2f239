package core

import "errors"

// Common errors.
var (
	ErrDuplicateHash = errors.New("record hash already present")
	ErrUnknownCommit = errors.New("unknown commit")
	ErrNotFound      = errors.New("entry not found")
	ErrIntegrity     = errors.New("memory check failed")
	ErrInvalidTarget = errors.New("invalid store target")
	ErrEmptyHash     = errors.New("record hash cannot be empty")
)
