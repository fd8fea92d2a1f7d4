// Package common defines sentinel errors shared across billarchive
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Configuration-level errors. These abort the affected backend.
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownModule = errors.New("unknown backend module")
	ErrMissingParam  = errors.New("missing backend parameter")
)
