package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/artpar/paramset/core/registry"
)

// ErrInvalidDocument is returned when a document fails validation.
var ErrInvalidDocument = errors.New("invalid schema document")

// Document is a named list of parameter definitions.
type Document struct {
	// Name identifies the schema, e.g. "device".
	Name string `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`

	// Description for documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`

	// Params are defined in order.
	Params []Field `yaml:"params" json:"params" toml:"params"`
}

// Define replays the document into r. It is the shared sequence of
// definitions both ends of an exchange run.
func (d Document) Define(r *registry.Registry) error {
	return Apply(d, r)
}

// Names returns the parameter names in document order.
func (d Document) Names() []string {
	names := make([]string, len(d.Params))
	for i, f := range d.Params {
		names[i] = f.Name
	}
	return names
}

// ParseFile parses a schema document, choosing the format by extension:
// .toml for TOML, anything else for YAML.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse parses a schema document from YAML bytes.
func Parse(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := Validate(doc); err != nil {
		return Document{}, fmt.Errorf("validate schema %q: %w", doc.Name, err)
	}

	return doc, nil
}

// ParseTOML parses a schema document from TOML bytes.
func ParseTOML(data []byte) (Document, error) {
	var doc Document
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return Document{}, fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Document{}, fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
	}

	if err := Validate(doc); err != nil {
		return Document{}, fmt.Errorf("validate schema %q: %w", doc.Name, err)
	}

	return doc, nil
}

// Validate checks that every field can be defined: names are present and
// unique, types are known, rules fit the type, bounds are consistent and
// defaults convert to the parameter type. A default that violates its own
// constraint is allowed here; registry.Verify reports it.
func Validate(doc Document) error {
	var errs []string

	if len(doc.Params) == 0 {
		errs = append(errs, "schema must have at least one parameter")
	}

	// Defining into a throwaway registry applies exactly the rules Apply will.
	scratch := registry.New()
	for i, f := range doc.Params {
		if err := f.Define(scratch); err != nil {
			errs = append(errs, fmt.Sprintf("params[%d]: %v", i, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidDocument, strings.Join(errs, "\n  - "))
	}

	return nil
}

// Apply validates doc and defines its parameters in r in document order.
// Nothing is defined when validation fails.
func Apply(doc Document, r *registry.Registry) error {
	if err := Validate(doc); err != nil {
		return err
	}
	for _, f := range doc.Params {
		if err := f.Define(r); err != nil {
			return fmt.Errorf("define %q: %w", f.Name, err)
		}
	}
	return nil
}
