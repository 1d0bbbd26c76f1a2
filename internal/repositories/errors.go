package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when an insert or update violates a unique
// constraint (the product code index).
var ErrDuplicateKey = errors.New("duplicate key")

// StoreError wraps an underlying persistence failure. Callers should not
// retry; the failed mutation was a single record read-modify-write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
