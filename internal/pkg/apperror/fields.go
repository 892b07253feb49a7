// internal/pkg/apperror/fields.go
package apperror

import (
	"sort"
	"strings"
)

// RequiredMessage is shown under an empty mandatory field
const RequiredMessage = "This field is required"

// FieldErrors maps a form field to the message shown under it
type FieldErrors map[string]string

// Require records RequiredMessage for every empty value
func (f FieldErrors) Require(fields map[string]string) {
	for name, value := range fields {
		if value == "" {
			f[name] = RequiredMessage
		}
	}
}

// Err returns nil when no field failed
func (f FieldErrors) Err(op string) error {
	if len(f) == 0 {
		return nil
	}
	return &FormError{Op: op, Fields: f}
}

// FormError carries every failed field of a form
type FormError struct {
	Op     string
	Fields FieldErrors
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return e.Op + ": invalid fields: " + strings.Join(names, ", ")
}

// Unwrap exposes the kind to KindOf
func (e *FormError) Unwrap() error {
	return New(KindValidation, e.Op, UserMessage(KindValidation))
}
