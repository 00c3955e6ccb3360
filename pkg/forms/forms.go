// Package forms carries field-keyed validation results so callers can render
// inline per-field feedback.
package forms

import "strings"

// FieldErrors maps a field name to its validation message. A nil or empty map
// means the form is acceptable.
type FieldErrors map[string]string

func (e FieldErrors) OK() bool {
	return len(e) == 0
}

// Clear drops the error for one field. Clearing is eager: the caller invokes
// it as soon as the user edits a field, independent of when the form is next
// validated.
func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

// Require records msg under field when value is empty or whitespace-only.
func (e FieldErrors) Require(field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		e[field] = msg
	}
}
