// Package repository implements database access for accounts, pending
// registrations, visitors and visit logs. Sentinel errors defined here
// let handlers translate failures into the right HTTP status without
// inspecting driver-specific error text.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no record matches the query within the
// caller's scope. Handlers translate it into a 404.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique key. The
// storage-level constraint, not a prior lookup, is the authority on
// duplicates so that two concurrent inserts cannot both succeed.
// Handlers translate it into a 409.
var ErrDuplicate = errors.New("record already exists")

// ErrPassConsumed is returned when a pass retrieval finds no visitor
// with an unconsumed pass: either the visitor does not exist or the
// single-use pass was already collected.
var ErrPassConsumed = errors.New("no such visitor or pass status false")

// isDuplicateKey reports whether the driver error is a MySQL 1062
// duplicate-entry violation.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
