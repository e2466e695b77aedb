// Package repository implements the data access layer on top of
// database/sql.  Sentinel errors let handlers map failures onto the HTTP
// error taxonomy without inspecting driver errors: uniqueness violations
// become validation errors, missing rows become 404s (sql.ErrNoRows is
// reused for those).
package repository

import (
	"errors"
	"strings"
)

// ErrUsernameExists is returned when a user insert or update collides
// with an existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when a user insert or update collides with
// an existing email.
var ErrEmailExists = errors.New("email already exists")

// ErrSlugExists is returned when a category or genre insert collides
// with an existing slug.
var ErrSlugExists = errors.New("slug already exists")

// ErrDuplicateReview is returned when a second review by the same author
// for the same work violates the (work, author) uniqueness constraint.
// Concurrent submissions both reach the insert; the constraint guarantees
// exactly one wins and the loser surfaces this error.
var ErrDuplicateReview = errors.New("review already exists for this work and author")

// isDup reports whether err is a MySQL duplicate-key error (1062).
func isDup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// dupOn reports whether a duplicate-key error mentions the given key or
// column name.  MySQL includes the violated key name in the 1062 message.
func dupOn(err error, key string) bool {
	return isDup(err) && strings.Contains(strings.ToLower(err.Error()), key)
}
