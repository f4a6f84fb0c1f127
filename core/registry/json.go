package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/ports"
)

var (
	// ErrNotAnObject is returned when a JSON payload is not an object.
	ErrNotAnObject = errors.New("json payload is not an object")

	// ErrMalformedJSON is returned when a JSON payload does not parse.
	ErrMalformedJSON = errors.New("malformed json")

	// ErrInvalidJSONType is matched by every *JSONTypeError.
	ErrInvalidJSONType = errors.New("invalid json type")
)

// JSONTypeError reports a JSON value whose type cannot be assigned to the
// named parameter.
type JSONTypeError struct {
	Field    string
	Kind     param.Kind
	JSONType string
}

func (e *JSONTypeError) Error() string {
	return fmt.Sprintf("invalid json type for %s parameter %q: %s", e.Kind, e.Field, e.JSONType)
}

// Is reports whether target is ErrInvalidJSONType.
func (e *JSONTypeError) Is(target error) bool {
	return target == ErrInvalidJSONType
}

// ToJSONObject returns a flat object with one member per parameter. Dotted
// names stay flat keys. Values are typed: int64 and uint64 for integers,
// float64, bool and string.
func (r *Registry) ToJSONObject() map[string]any {
	r.observeEncode(ports.FormatJSON)
	return r.jsonObject()
}

// ToJSON encodes ToJSONObject. Float parameters never hold NaN or
// infinities, so the encoding does not fail for a registry built here.
func (r *Registry) ToJSON() ([]byte, error) {
	r.observeEncode(ports.FormatJSON)
	data, err := json.Marshal(r.jsonObject())
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

func (r *Registry) jsonObject() map[string]any {
	obj := make(map[string]any, len(r.params))
	for name, e := range r.params {
		obj[name] = e.Any()
	}
	return obj
}

// FromJSONObject encodes obj and decodes it with FromJSON.
func (r *Registry) FromJSONObject(obj map[string]any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return r.FromJSON(data)
}

// FromJSON assigns the members of a flat JSON object. Each member is
// converted according to the parameter's kind:
//
//   - int, uint, float: a JSON number, or a string holding a number
//   - bool: a JSON boolean, an integer (zero is false), or a string
//     accepted by the boolean text form
//   - string: a JSON string, or the compact JSON text of any other value
//
// Like FromCompactString the decode is strict and all-or-nothing: an unknown
// member, a mistyped member or an invalid value rejects the whole payload
// and nothing is assigned.
func (r *Registry) FromJSON(data []byte) (err error) {
	defer func() { r.observeDecode(ports.FormatJSON, err) }()

	if !gjson.ValidBytes(data) {
		return r.rejected(ports.FormatJSON, "", ErrMalformedJSON)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return r.rejected(ports.FormatJSON, "", fmt.Errorf("%w: got %s", ErrNotAnObject, jsonType(root)))
	}

	var batch []pending
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		e, ok := r.params[name]
		if !ok {
			err = fmt.Errorf("%w: %q", param.ErrUnknownParameter, name)
			return false
		}
		var text string
		text, err = jsonText(name, e.Kind(), value)
		if err != nil {
			return false
		}
		if err = e.CheckText(text); err != nil {
			return false
		}
		batch = append(batch, pending{entry: e, text: text})
		return true
	})
	if err != nil {
		return r.rejected(ports.FormatJSON, "", err)
	}
	return r.commit(batch)
}

// jsonText converts a JSON value into the textual form accepted by
// param.Entry.ParseText for kind.
func jsonText(name string, kind param.Kind, v gjson.Result) (string, error) {
	switch kind {
	case param.Integer, param.UnsignedInteger, param.FloatingPoint:
		switch v.Type {
		case gjson.Number:
			return v.Raw, nil
		case gjson.String:
			return v.Str, nil
		}

	case param.Boolean:
		switch v.Type {
		case gjson.True:
			return "true", nil
		case gjson.False:
			return "false", nil
		case gjson.Number:
			if isIntegerLiteral(v.Raw) {
				if strings.Trim(v.Raw, "-0") == "" {
					return "false", nil
				}
				return "true", nil
			}
		case gjson.String:
			return v.Str, nil
		}

	case param.String:
		if v.Type == gjson.String {
			return v.Str, nil
		}
		return string(pretty.Ugly([]byte(v.Raw))), nil
	}

	return "", &JSONTypeError{Field: name, Kind: kind, JSONType: jsonType(v)}
}

func isIntegerLiteral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}

func jsonType(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "object"
	case v.IsArray():
		return "array"
	}
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		if isIntegerLiteral(v.Raw) {
			return "integer"
		}
		return "number"
	case gjson.String:
		return "string"
	default:
		return "unknown"
	}
}
