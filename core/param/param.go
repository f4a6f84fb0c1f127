package param

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Entry is the type-erased view of a parameter held by a registry.
// Every *Param[T] implements it.
type Entry interface {
	Name() string
	Kind() Kind

	// Text renders the current value in its canonical textual form.
	Text() string

	// ParseText parses repr and assigns it. Malformed input yields a
	// *ParseError; a well-formed value that breaks the constraint yields a
	// *ConstraintError.
	ParseText(repr string) error

	// CheckText reports the error ParseText would return without assigning.
	CheckText(repr string) error

	// Any returns the current value boxed as int64, uint64, float64, bool or string.
	Any() any

	// Reset assigns the default value.
	Reset() error
}

// Param is a named, typed value cell with a fixed default and a constraint.
// The current value always satisfies the constraint: a rejected assignment
// leaves it unchanged.
type Param[T Value] struct {
	name       string
	kind       Kind
	value      T
	def        T
	constraint Constraint[T]
}

// New creates a parameter holding def. The default is not validated here;
// see Param.CheckDefault.
func New[T Value](name string, def T, c Constraint[T]) *Param[T] {
	return &Param[T]{
		name:       name,
		kind:       KindOf[T](),
		value:      def,
		def:        def,
		constraint: c,
	}
}

// Name returns the parameter name.
func (p *Param[T]) Name() string { return p.name }

// Kind returns the value kind.
func (p *Param[T]) Kind() Kind { return p.kind }

// Get returns the current value.
func (p *Param[T]) Get() T { return p.value }

// Default returns the default value.
func (p *Param[T]) Default() T { return p.def }

// Any implements Entry.
func (p *Param[T]) Any() any { return p.value }

// Constraint returns the constraint attached at definition time, or nil.
func (p *Param[T]) Constraint() Constraint[T] { return p.constraint }

// Set validates v and, if it passes, replaces the current value.
func (p *Param[T]) Set(v T) error {
	if err := p.validate(v); err != nil {
		return err
	}
	p.value = v
	return nil
}

// Reset assigns the default value. It fails only when the default itself
// violates the constraint.
func (p *Param[T]) Reset() error {
	return p.Set(p.def)
}

// CheckDefault reports whether the default satisfies the constraint.
func (p *Param[T]) CheckDefault() error {
	return p.validate(p.def)
}

// Text implements Entry.
func (p *Param[T]) Text() string {
	return FormatValue(p.value)
}

// ParseText implements Entry.
func (p *Param[T]) ParseText(repr string) error {
	v, err := p.parse(repr)
	if err != nil {
		return err
	}
	return p.Set(v)
}

// CheckText implements Entry.
func (p *Param[T]) CheckText(repr string) error {
	v, err := p.parse(repr)
	if err != nil {
		return err
	}
	return p.validate(v)
}

func (p *Param[T]) parse(repr string) (T, error) {
	v, err := ParseValue[T](repr)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Field = p.name
		}
		return v, err
	}
	return v, nil
}

// validate applies the constraint. Float parameters also reject NaN and
// infinities, which no textual or JSON form can carry.
func (p *Param[T]) validate(v T) error {
	if f, ok := any(v).(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return &ConstraintError{
			Field:     p.name,
			Violation: NotFinite,
			Value:     f,
			Message:   fmt.Sprintf("value %v is not finite", f),
		}
	}
	err := Validate(p.constraint, v)
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) && ce.Field == "" {
		ce.Field = p.name
	}
	return err
}

// FormatValue renders v in the canonical textual form shared by the compact
// codec and ParseValue. Booleans render as "true" or "false"; floats use the
// shortest representation that parses back to the same value.
func FormatValue[T Value](v T) string {
	switch x := any(v).(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// ParseValue parses repr using the textual grammar of T:
//
//   - int: optional sign and decimal digits
//   - uint: decimal digits
//   - float: decimal or scientific notation, finite values only
//   - bool: "true"/"false" in any case, or "1"/"0"
//   - string: repr itself
func ParseValue[T Value](repr string) (T, error) {
	var zero T
	kind := KindOf[T]()

	var (
		out any
		err error
	)
	switch kind {
	case Integer:
		out, err = strconv.ParseInt(repr, 10, 64)
	case UnsignedInteger:
		out, err = strconv.ParseUint(repr, 10, 64)
	case FloatingPoint:
		var f float64
		f, err = strconv.ParseFloat(repr, 64)
		if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			err = errors.New("value is not finite")
		}
		out = f
	case Boolean:
		out, err = parseBool(repr)
	default:
		out = repr
	}
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return zero, &ParseError{Kind: kind, Literal: repr, Err: err}
	}
	return out.(T), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, errors.New(`expected "true", "false", "1" or "0"`)
	}
}
