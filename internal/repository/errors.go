// Package repository contains the data access layer over the document
// store. This file defines the error sentinels shared by every
// repository. Handlers distinguish failure classes with errors.Is: a
// missing entity maps to HTTP 404, a uniqueness violation to 409.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the base sentinel wrapped by every entity-specific
// not-found error, so callers can match any of them at once.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is the base sentinel for uniqueness violations
// (duplicate seed/tool names, duplicate emails, open usages).
var ErrAlreadyExists = errors.New("already exists")

// notFound builds an entity-specific error wrapping ErrNotFound.
func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// alreadyExists builds an entity-specific error wrapping ErrAlreadyExists.
func alreadyExists(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrAlreadyExists)
}
