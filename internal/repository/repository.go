package repository

import "errors"

// ErrNotFound is returned by every Find* method when no row matches.
var ErrNotFound = errors.New("not found")
