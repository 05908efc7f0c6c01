// Package store is the persistence boundary for rubrics and templates. It
// translates between the in-memory editing core and the relational schema:
// row order becomes an explicit position column on the way down and a plain
// sequence on the way up. Every call takes the acting user id explicitly;
// nothing in this package reads ambient authentication state.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by store operations.
var (
	// ErrNotFound indicates the record does not exist or is not visible to
	// the acting user.
	ErrNotFound = errors.New("store: not found")
	// ErrValidation indicates the request is structurally invalid for the
	// target record, e.g. applying template updates to an unlinked rubric.
	ErrValidation = errors.New("store: validation failed")
)

// Store executes rubric and template persistence operations over a gorm
// connection.
type Store struct {
	db *gorm.DB
}

// New creates a store bound to the given database connection.
func New(conn *gorm.DB) *Store {
	return &Store{db: conn}
}
