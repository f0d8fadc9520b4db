// Package repository implements the data access layer over database/sql.
// This file defines sentinel errors shared across repositories so that
// handlers can map storage failures to HTTP status codes without string
// matching. sql.ErrNoRows doubles as the generic "not found" sentinel.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update would duplicate a
// user's email address.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when an insert or update would
// duplicate a username.
var ErrUsernameExists = errors.New("username already exists")

// ErrThreadNotFound is returned when a response references a thread id
// that does not exist.
var ErrThreadNotFound = errors.New("thread not found")

// ErrUserNotFound is returned when an operation targets an unknown user.
var ErrUserNotFound = errors.New("user not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// isDuplicate reports whether err is a unique-key violation. MySQL
// surfaces error 1062; SQLite (used by the test suite) reports
// "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
