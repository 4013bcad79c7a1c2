package core

import (
	"errors"
	"fmt"
)

// ErrEmptySnapshot is returned by queries that need at least one amount.
var ErrEmptySnapshot = errors.New("empty snapshot")

// ValidationError reports bad user input. It never reaches a store.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StoreUnavailableError means the backing medium could not be reached at
// all. Every operation on an unavailable store returns the same value.
type StoreUnavailableError struct {
	Store string
	Err   error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store %s unavailable: %v", e.Store, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failure raised by the backing medium while running Op.
type StoreError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Store, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ParseWarning records a loaded value that could not be coerced. The
// affected field is left missing; the load itself continues.
type ParseWarning struct {
	Position int
	Field    string
	Value    string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("position %d: cannot parse %s %q", w.Position, w.Field, w.Value)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnavailable reports whether err is (or wraps) a StoreUnavailableError.
func IsUnavailable(err error) bool {
	var ue *StoreUnavailableError
	return errors.As(err, &ue)
}
