package models

import (
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError is returned when a well-formed reference names a record that
// does not exist.
type NotFoundError struct {
	// Resource is the display name of the record type (e.g., "Translation").
	Resource string

	// Key is the id, abbreviation or name that was looked up.
	Key any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// Unwrap lets callers match with errors.Is(err, gorm.ErrRecordNotFound).
func (e *NotFoundError) Unwrap() error {
	return gorm.ErrRecordNotFound
}
