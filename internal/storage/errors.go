package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// most importantly the unique user email. Callers translate it into a
// domain-specific "already exists" response.
var ErrDuplicate = errors.New("record already exists")
