package param

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a name is defined twice in one registry.
	ErrDuplicateName = errors.New("duplicate parameter name")

	// ErrUnknownParameter is returned when a name is not part of the schema.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrTypeMismatch is returned when a parameter is accessed as the wrong type.
	ErrTypeMismatch = errors.New("parameter type mismatch")

	// ErrConstraintViolation is matched by every *ConstraintError.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("malformed value")

	// ErrInvalidConstraint is returned for constraints that can never hold,
	// such as a minimum above the maximum.
	ErrInvalidConstraint = errors.New("invalid constraint")
)

// Violation identifies which rule of a constraint failed.
type Violation string

const (
	BelowMinimum Violation = "below_minimum"
	AboveMaximum Violation = "above_maximum"
	TooShort     Violation = "too_short"
	TooLong      Violation = "too_long"
	NotAllowed   Violation = "not_allowed"
	NotFinite    Violation = "not_finite"
)

// ConstraintError represents a value rejected by a constraint.
type ConstraintError struct {
	Field     string    `json:"field,omitempty"`
	Violation Violation `json:"violation"`
	Value     any       `json:"value,omitempty"`
	Message   string    `json:"message"`
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrConstraintViolation.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// ParseError represents a textual literal that could not be read as Kind.
type ParseError struct {
	Field   string
	Kind    Kind
	Literal string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %q as %s", e.Literal, e.Kind)
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// TypeMismatchError is returned when a stored parameter's kind differs
// from the kind requested at the call site.
type TypeMismatchError struct {
	Field string
	Have  Kind
	Want  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: parameter is %s, requested as %s", e.Field, e.Have, e.Want)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
