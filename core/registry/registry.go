// Package registry holds a named collection of typed parameters and
// serializes it to and from the compact string and JSON wire formats.
//
// A Registry is a schema plus its current values. Two endpoints that want to
// exchange values build their registries with the same sequence of Define
// calls; after that, ToCompactString/FromCompactString and ToJSON/FromJSON
// carry values between them with strict validation: unknown names, malformed
// literals and constraint violations are all rejected.
//
// A Registry is not safe for concurrent use. Guard it externally, for
// example with config.Holder.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/ports"
)

// ErrEmptyName is returned when a parameter is defined without a name.
var ErrEmptyName = errors.New("parameter name is empty")

// Registry owns every parameter defined on it. Parameters are never removed.
type Registry struct {
	// params by name
	params map[string]param.Entry

	logger         zerolog.Logger
	observer       ports.CodecObserver
	strictDefaults bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithObserver reports every encode and decode to o.
func WithObserver(o ports.CodecObserver) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// WithStrictDefaults makes Define reject a default that violates its own
// constraint. Without it the default is accepted and only Reset or Verify
// reveal the problem.
func WithStrictDefaults() Option {
	return func(r *Registry) {
		r.strictDefaults = true
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		params: make(map[string]param.Entry),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define adds a parameter of type T initialized to def. It fails when the
// name is already taken or the constraint can never be satisfied.
func Define[T param.Value](r *Registry, name string, def T, c param.Constraint[T]) (*param.Param[T], error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := r.params[name]; exists {
		return nil, fmt.Errorf("%w: %q", param.ErrDuplicateName, name)
	}
	if err := param.CheckConstraint(c); err != nil {
		return nil, fmt.Errorf("define %q: %w", name, err)
	}

	p := param.New(name, def, c)
	if r.strictDefaults {
		if err := p.CheckDefault(); err != nil {
			return nil, fmt.Errorf("define %q: invalid default: %w", name, err)
		}
	}

	r.params[name] = p
	return p, nil
}

// MustDefine is like Define but panics on error. It is meant for schemas
// written in code, where a failure is a programming mistake.
func MustDefine[T param.Value](r *Registry, name string, def T, c param.Constraint[T]) *param.Param[T] {
	p, err := Define(r, name, def, c)
	if err != nil {
		panic(err)
	}
	return p
}

// AddInt defines an int parameter.
func (r *Registry) AddInt(name string, def int64, c param.Range[int64]) (*param.Param[int64], error) {
	return Define[int64](r, name, def, c)
}

// AddUint defines a uint parameter.
func (r *Registry) AddUint(name string, def uint64, c param.Range[uint64]) (*param.Param[uint64], error) {
	return Define[uint64](r, name, def, c)
}

// AddFloat defines a float parameter.
func (r *Registry) AddFloat(name string, def float64, c param.Range[float64]) (*param.Param[float64], error) {
	return Define[float64](r, name, def, c)
}

// AddBool defines a bool parameter. Booleans carry no constraint.
func (r *Registry) AddBool(name string, def bool) (*param.Param[bool], error) {
	return Define[bool](r, name, def, nil)
}

// AddString defines a string parameter.
func (r *Registry) AddString(name string, def string, c param.Text) (*param.Param[string], error) {
	return Define[string](r, name, def, c)
}

// Len returns the number of parameters.
func (r *Registry) Len() int {
	return len(r.params)
}

// Has reports whether name is defined.
func (r *Registry) Has(name string) bool {
	_, ok := r.params[name]
	return ok
}

// Names returns all parameter names in lexicographic order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.params))
}

// Lookup returns the type-erased parameter for name.
func (r *Registry) Lookup(name string) (param.Entry, bool) {
	e, ok := r.params[name]
	return e, ok
}

// Kind returns the kind of the named parameter.
func (r *Registry) Kind(name string) (param.Kind, error) {
	e, err := r.entry(name)
	if err != nil {
		return 0, err
	}
	return e.Kind(), nil
}

// Text returns the canonical textual value of the named parameter.
func (r *Registry) Text(name string) (string, error) {
	e, err := r.entry(name)
	if err != nil {
		return "", err
	}
	return e.Text(), nil
}

// SetText parses text according to the parameter's kind and assigns it.
func (r *Registry) SetText(name, text string) error {
	e, err := r.entry(name)
	if err != nil {
		return err
	}
	return e.ParseText(text)
}

// Snapshot returns the textual value of every parameter.
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, len(r.params))
	for name, e := range r.params {
		out[name] = e.Text()
	}
	return out
}

// ResetAll assigns every parameter its default. Parameters whose default
// fails validation keep their value and are reported in the joined error.
func (r *Registry) ResetAll() error {
	var errs []error
	for _, name := range r.Names() {
		if err := r.params[name].Reset(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verify reports every parameter whose default violates its constraint.
func (r *Registry) Verify() error {
	var errs []error
	for _, name := range r.Names() {
		checker, ok := r.params[name].(interface{ CheckDefault() error })
		if !ok {
			continue
		}
		if err := checker.CheckDefault(); err != nil {
			r.logger.Warn().Str("param", name).Err(err).Msg("default violates constraint")
			errs = append(errs, fmt.Errorf("default of %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) entry(name string) (param.Entry, error) {
	e, ok := r.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", param.ErrUnknownParameter, name)
	}
	return e, nil
}
