package dao

import "errors"

// Sentinel errors shared by store implementations, detectable with
// errors.Is rather than string matching.

var (
	// ErrNotFound indicates the keyed entity is absent from the store.
	ErrNotFound = errors.New("dao: not found")

	// ErrNilEntity indicates an attempt to persist a nil pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)
