package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ErrAccountNotFound is returned by repositories for point lookups that match
// no account.
var ErrAccountNotFound = fmt.Errorf("account not found")

// ValidationError reports every field that violated its constraint.
type ValidationError struct {
	Fields map[string]string // field name -> message
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateKeyError reports a username or email collision with an existing
// account. Field names the colliding column.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("the %s is already taken", e.Field)
}
