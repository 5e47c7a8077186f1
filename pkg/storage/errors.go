package storage

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose ID is taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrVersionConflict is returned when a write's expected version no longer matches
// the stored version. Callers should re-read and retry.
var ErrVersionConflict = errors.New("version conflict")
