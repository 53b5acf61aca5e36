// Package models implements the data access layer. Every mutating
// operation runs in a single transaction and enforces its invariants
// (uniqueness, enum membership, referential consistency, audit logging)
// before committing.
package models

import "fmt"

// ValidationError reports malformed or missing input: a required field
// absent, an unknown status value, a bad date format, a client id that
// does not resolve.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports a uniqueness violation. Field names the column
// that collided (name, imei or phone) so callers can show a specific
// message without parsing engine errors.
type ConflictError struct {
	Field string
	Msg   string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError reports that the operation target does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// StorageError wraps an unexpected failure from the storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
