package schema

import (
	"fmt"
	"strconv"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/core/registry"
)

// Field defines one parameter in a schema document.
type Field struct {
	// Name is the parameter name. Dots are allowed and carry no structure.
	Name string `yaml:"name" json:"name" toml:"name"`

	// Type is one of int, uint, float, bool or string.
	Type string `yaml:"type" json:"type" toml:"type"`

	// Description for documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`

	// Default value. Numbers, booleans and strings are accepted for every
	// type as long as they convert without loss.
	Default any `yaml:"default,omitempty" json:"default,omitempty" toml:"default,omitempty"`

	// Numeric bounds, inclusive.
	Min any `yaml:"min,omitempty" json:"min,omitempty" toml:"min,omitempty"`
	Max any `yaml:"max,omitempty" json:"max,omitempty" toml:"max,omitempty"`

	// String rules.
	MinLength *int     `yaml:"min_length,omitempty" json:"min_length,omitempty" toml:"min_length,omitempty"`
	MaxLength *int     `yaml:"max_length,omitempty" json:"max_length,omitempty" toml:"max_length,omitempty"`
	Allowed   []string `yaml:"allowed,omitempty" json:"allowed,omitempty" toml:"allowed,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty" toml:"pattern,omitempty"`
}

// Kind returns the parameter kind named by Type.
func (f Field) Kind() (param.Kind, error) {
	kind, err := param.ParseKind(f.Type)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return kind, nil
}

// Define adds the parameter described by f to r.
func (f Field) Define(r *registry.Registry) error {
	kind, err := f.Kind()
	if err != nil {
		return err
	}
	if err := f.checkRules(kind); err != nil {
		return err
	}

	switch kind {
	case param.Integer:
		return defineNumber[int64](r, f)
	case param.UnsignedInteger:
		return defineNumber[uint64](r, f)
	case param.FloatingPoint:
		return defineNumber[float64](r, f)
	case param.Boolean:
		def, err := convert[bool](f.Name, "default", f.Default)
		if err != nil {
			return err
		}
		_, err = r.AddBool(f.Name, def)
		return err
	default:
		def := ""
		if f.Default != nil {
			s, ok := f.Default.(string)
			if !ok {
				return fmt.Errorf("field %q: default must be a string", f.Name)
			}
			def = s
		}
		_, err := r.AddString(f.Name, def, f.text())
		return err
	}
}

// checkRules rejects rules that do not apply to kind.
func (f Field) checkRules(kind param.Kind) error {
	numeric := kind == param.Integer || kind == param.UnsignedInteger || kind == param.FloatingPoint
	if !numeric && (f.Min != nil || f.Max != nil) {
		return fmt.Errorf("field %q: min and max do not apply to %s", f.Name, kind)
	}
	if kind != param.String && (f.MinLength != nil || f.MaxLength != nil || len(f.Allowed) > 0 || f.Pattern != "") {
		return fmt.Errorf("field %q: string rules do not apply to %s", f.Name, kind)
	}
	return nil
}

func (f Field) text() param.Text {
	t := param.Text{Pattern: f.Pattern}
	if f.MinLength != nil {
		t.HasMinLength, t.MinLength = true, *f.MinLength
	}
	if f.MaxLength != nil {
		t.HasMaxLength, t.MaxLength = true, *f.MaxLength
	}
	if len(f.Allowed) > 0 {
		t.HasAllowed, t.Allowed = true, f.Allowed
	}
	return t
}

func defineNumber[N param.Number](r *registry.Registry, f Field) error {
	def, err := convert[N](f.Name, "default", f.Default)
	if err != nil {
		return err
	}
	var rng param.Range[N]
	if f.Min != nil {
		if rng.Min, err = convert[N](f.Name, "min", f.Min); err != nil {
			return err
		}
		rng.HasMin = true
	}
	if f.Max != nil {
		if rng.Max, err = convert[N](f.Name, "max", f.Max); err != nil {
			return err
		}
		rng.HasMax = true
	}
	_, err = registry.Define[N](r, f.Name, def, rng)
	return err
}

// convert turns a decoded document value into T through its textual form,
// so the same parsing rules apply as on the wire. A nil value yields the
// zero value.
func convert[T param.Value](field, what string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	out, err := param.ParseValue[T](literal(v))
	if err != nil {
		return zero, fmt.Errorf("field %q: %s: %w", field, what, err)
	}
	return out, nil
}

func literal(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
