package validate

import (
	"strings"
)

// FieldError is one broken field with a human readable message
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects every broken field of an operation so a form
// can show all of them at once. Implements error.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the field is among the broken ones
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Required appends a field error if the value is blank (empty or whitespace only)
func Required(errs FieldErrors, field string, value string) FieldErrors {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, FieldError{Field: field, Message: "This field is required"})
	}
	return errs
}
