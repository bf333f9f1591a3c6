package store

import "errors"

// ErrNotFound is returned when no record matches a natural key
var ErrNotFound = errors.New("record not found")

// ErrStorageUnavailable is returned when a store operation cannot complete
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrConstraintViolation is returned when a write collides with an existing
// natural key, typically because a concurrent writer created it between the
// lookup and the save
var ErrConstraintViolation = errors.New("constraint violation")
