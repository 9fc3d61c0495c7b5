package store

import (
	"fmt"
)

// PreconditionError is returned when a mutation is requested with arguments
// that can never succeed. Nothing is dispatched in that case.
type PreconditionError struct {
	Kind    Kind
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func precondition(kind Kind, format string, args ...any) *PreconditionError {
	return &PreconditionError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
