package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/admin/store"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
// The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// NotFoundError reports that no user matched Field = Value.
type NotFoundError struct {
	Field string
	Value any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user not found: %s=%v", e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error { return store.ErrNotFound }

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError wraps a failed write. Field is set when the failure was
// a unique constraint on that column.
type PersistenceError struct {
	Op    string
	Field string
	Err   error
}

func (e *PersistenceError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s user: %s already exists", e.Op, e.Field)
	}
	return fmt.Sprintf("%s user: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsConflict reports whether the write failed on a unique constraint.
func (e *PersistenceError) IsConflict() bool {
	return errors.Is(e.Err, store.ErrAlreadyExists)
}

func persistenceError(op string, err error) error {
	pe := &PersistenceError{Op: op, Err: err}
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		pe.Field = conflict.Column
	}
	return pe
}
