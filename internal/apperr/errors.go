// Package apperr defines sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrParse    = errors.New("parse error")
	ErrLookup   = errors.New("lookup error")
	ErrCycle    = errors.New("cyclic reference")
	ErrLimit    = errors.New("limit exceeded")
)
