package param

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Constraint validates candidate values for a parameter of type T.
// Validate is a pure predicate; on failure it returns a *ConstraintError.
type Constraint[T Value] interface {
	Validate(v T) error
}

// Unconstrained accepts every value. A nil Constraint behaves the same way.
type Unconstrained[T Value] struct{}

// Validate implements Constraint.
func (Unconstrained[T]) Validate(T) error { return nil }

// Range bounds a numeric parameter. Both bounds are inclusive and
// independently enabled; an unset bound imposes no restriction.
type Range[N Number] struct {
	HasMin bool `yaml:"has_min" json:"has_min"`
	Min    N    `yaml:"min" json:"min"`
	HasMax bool `yaml:"has_max" json:"has_max"`
	Max    N    `yaml:"max" json:"max"`
}

// Between returns a Range with both bounds set.
func Between[N Number](min, max N) Range[N] {
	return Range[N]{HasMin: true, Min: min, HasMax: true, Max: max}
}

// AtLeast returns a Range with only a lower bound.
func AtLeast[N Number](min N) Range[N] {
	return Range[N]{HasMin: true, Min: min}
}

// AtMost returns a Range with only an upper bound.
func AtMost[N Number](max N) Range[N] {
	return Range[N]{HasMax: true, Max: max}
}

// Validate implements Constraint. The minimum is checked before the maximum.
func (r Range[N]) Validate(v N) error {
	if r.HasMin && v < r.Min {
		return &ConstraintError{
			Violation: BelowMinimum,
			Value:     v,
			Message:   fmt.Sprintf("value %v is below minimum %v", v, r.Min),
		}
	}
	if r.HasMax && v > r.Max {
		return &ConstraintError{
			Violation: AboveMaximum,
			Value:     v,
			Message:   fmt.Sprintf("value %v is above maximum %v", v, r.Max),
		}
	}
	return nil
}

// Check reports bounds that no value can satisfy.
func (r Range[N]) Check() error {
	if r.HasMin && r.HasMax && r.Min > r.Max {
		return fmt.Errorf("%w: minimum %v is above maximum %v", ErrInvalidConstraint, r.Min, r.Max)
	}
	return nil
}

// Text constrains a string parameter. Lengths count Unicode code points.
type Text struct {
	HasMinLength bool     `yaml:"has_min_length" json:"has_min_length"`
	MinLength    int      `yaml:"min_length" json:"min_length"`
	HasMaxLength bool     `yaml:"has_max_length" json:"has_max_length"`
	MaxLength    int      `yaml:"max_length" json:"max_length"`
	HasAllowed   bool     `yaml:"has_allowed" json:"has_allowed"`
	Allowed      []string `yaml:"allowed" json:"allowed"`

	// Pattern is carried with the schema but not enforced.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// OneOf returns a Text constraint that only accepts the listed values.
func OneOf(values ...string) Text {
	return Text{HasAllowed: true, Allowed: values}
}

// Length returns a Text constraint bounding the length to [min, max].
func Length(min, max int) Text {
	return Text{HasMinLength: true, MinLength: min, HasMaxLength: true, MaxLength: max}
}

// Validate implements Constraint. Length rules are checked before the
// allowed set, which uses exact case-sensitive matching.
func (t Text) Validate(v string) error {
	n := utf8.RuneCountInString(v)
	if t.HasMinLength && n < t.MinLength {
		return &ConstraintError{
			Violation: TooShort,
			Value:     v,
			Message:   fmt.Sprintf("string length %d is below minimum %d", n, t.MinLength),
		}
	}
	if t.HasMaxLength && n > t.MaxLength {
		return &ConstraintError{
			Violation: TooLong,
			Value:     v,
			Message:   fmt.Sprintf("string length %d is above maximum %d", n, t.MaxLength),
		}
	}
	if t.HasAllowed && !slices.Contains(t.Allowed, v) {
		return &ConstraintError{
			Violation: NotAllowed,
			Value:     v,
			Message:   fmt.Sprintf("value %q is not one of: %s", v, strings.Join(t.Allowed, ", ")),
		}
	}
	return nil
}

// Check reports length bounds that no value can satisfy.
func (t Text) Check() error {
	if t.HasMinLength && t.MinLength < 0 {
		return fmt.Errorf("%w: negative minimum length %d", ErrInvalidConstraint, t.MinLength)
	}
	if t.HasMinLength && t.HasMaxLength && t.MinLength > t.MaxLength {
		return fmt.Errorf("%w: minimum length %d is above maximum %d", ErrInvalidConstraint, t.MinLength, t.MaxLength)
	}
	return nil
}

// Validate runs c against v, treating a nil constraint as unconstrained.
func Validate[T Value](c Constraint[T], v T) error {
	if c == nil {
		return nil
	}
	return c.Validate(v)
}

// CheckConstraint reports whether c is self-consistent. Constraints without
// a Check method are always consistent.
func CheckConstraint[T Value](c Constraint[T]) error {
	if checker, ok := c.(interface{ Check() error }); ok {
		return checker.Check()
	}
	return nil
}
