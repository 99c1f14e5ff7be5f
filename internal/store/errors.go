package store

import "errors"

var (
	// ErrUnavailable marks failures of the persistence medium itself
	// (I/O errors, permissions, quota).
	ErrUnavailable = errors.New("store unavailable")

	// ErrCorrupt marks an existing snapshot that fails to parse. It is
	// surfaced loudly instead of being treated as an empty collection, which
	// would silently discard user data.
	ErrCorrupt = errors.New("store corrupt")

	// ErrDuplicateID marks an insert whose id already exists in the
	// collection. Ids are never reused and inserts never merge.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrNotFound marks a missing report lookup. Deletes are idempotent and
	// never return it.
	ErrNotFound = errors.New("not found")
)
