package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSellerNotFound is returned when a seller id references nothing,
	// either as an operation target or as a book's owner-to-be.
	ErrSellerNotFound = errors.New("seller not found")

	// ErrBookNotFound is returned when a book id references nothing.
	ErrBookNotFound = errors.New("book not found")

	// ErrEmailExists is returned when a registration or update would give
	// two sellers the same email address.
	ErrEmailExists = errors.New("seller with this email already exists")
)

// ValidationError reports static input-rule failures per field. It is
// raised before any store access, so a failed validation never touches
// the database.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
