package calculator

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidDimension is returned when a profile or package field is not a finite positive number.
	ErrInvalidDimension = errors.New("dimension must be a finite positive number")
	// ErrInvalidQuantity is returned when a shipment quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrDoesNotFit is returned by PlanShipment when not even one package fits the container.
	ErrDoesNotFit = errors.New("package does not fit into the container")
)

// ValidationError identifies the field that failed validation.
// It always unwraps to ErrInvalidDimension.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = ErrInvalidDimension.Error()
	}
	return fmt.Sprintf("invalid %s (%s): %s", e.Field, strconv.FormatFloat(e.Value, 'g', -1, 64), reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDimension
}
