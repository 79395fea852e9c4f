package motionplan

import (
	"fmt"
)

// OutOfDomainError is returned when an inverse trigonometric function would be evaluated outside
// of its domain.
type OutOfDomainError struct {
	Function string
	Argument float64
}

func (e *OutOfDomainError) Error() string {
	return fmt.Sprintf("%s argument %v is outside [-1, 1]", e.Function, e.Argument)
}

// NewOutOfDomainError returns an OutOfDomainError for the named function.
func NewOutOfDomainError(function string, argument float64) error {
	return &OutOfDomainError{Function: function, Argument: argument}
}
