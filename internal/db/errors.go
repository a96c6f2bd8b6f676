package db

import "errors"

// ErrNotFound is returned by lookup methods when no row matches.
// Callers distinguish it from store faults with errors.Is.
var ErrNotFound = errors.New("not found")
