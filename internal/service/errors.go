package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field-level errors back to the submission form.
// It is raised before any gateway call, so it never implies side effects.
type ValidationError struct {
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid submission fields: %s", strings.Join(fields, ", "))
}

func newValidationError() *ValidationError {
	return &ValidationError{FieldErrors: map[string]string{}}
}

// PlacementError means a confirmed charge exists but the order aggregate
// could not be recorded. Money has moved without a matching order, so this
// is never swallowed or retried silently; it requires reconciliation.
type PlacementError struct {
	OrderNumber string
	ChargeID    string
	Err         error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("order %s could not be placed after charge %s: %v", e.OrderNumber, e.ChargeID, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }
