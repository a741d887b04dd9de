package model

import "fmt"

// ValidationError reports that a presented datum does not match the
// expected shape (spec.md §7: ValidationError). Validation failures in
// user-supplied inputs surface immediately as fatal errors.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model: invalid %s: %s", e.Field, e.Reason)
}
