package param

import (
	"fmt"
	"strings"
)

// Kind identifies the value type of a parameter.
// It is fixed when the parameter is defined.
type Kind int

const (
	Integer Kind = iota
	UnsignedInteger
	FloatingPoint
	Boolean
	String
)

// String returns the schema name of the kind.
func (k Kind) String() string {
	switch k {
	case Integer:
		return "int"
	case UnsignedInteger:
		return "uint"
	case FloatingPoint:
		return "float"
	case Boolean:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a schema type name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer":
		return Integer, nil
	case "uint", "unsigned":
		return UnsignedInteger, nil
	case "float", "double", "number":
		return FloatingPoint, nil
	case "bool", "boolean":
		return Boolean, nil
	case "string", "text":
		return String, nil
	default:
		return 0, fmt.Errorf("unknown parameter type %q", s)
	}
}

// Value is the set of Go types a parameter can hold.
type Value interface {
	int64 | uint64 | float64 | bool | string
}

// Number is the subset of Value that supports range constraints.
type Number interface {
	int64 | uint64 | float64
}

// KindOf returns the Kind tag for T.
func KindOf[T Value]() Kind {
	var zero T
	switch any(zero).(type) {
	case int64:
		return Integer
	case uint64:
		return UnsignedInteger
	case float64:
		return FloatingPoint
	case bool:
		return Boolean
	default:
		return String
	}
}
