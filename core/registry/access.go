package registry

import (
	"errors"
	"fmt"

	"github.com/artpar/paramset/core/param"
)

// lookup resolves name to a *param.Param[T]. The stored kind tag is compared
// with the requested kind before the concrete type is recovered.
func lookup[T param.Value](r *Registry, name string) (*param.Param[T], error) {
	e, err := r.entry(name)
	if err != nil {
		return nil, err
	}
	want := param.KindOf[T]()
	if e.Kind() != want {
		return nil, &param.TypeMismatchError{Field: name, Have: e.Kind(), Want: want}
	}
	p, ok := e.(*param.Param[T])
	if !ok {
		return nil, &param.TypeMismatchError{Field: name, Have: e.Kind(), Want: want}
	}
	return p, nil
}

// Param returns the typed handle for name.
func Param[T param.Value](r *Registry, name string) (*param.Param[T], error) {
	return lookup[T](r, name)
}

// Set assigns v to the named parameter. It fails with ErrUnknownParameter,
// ErrTypeMismatch or ErrConstraintViolation; on failure nothing changes.
func Set[T param.Value](r *Registry, name string, v T) error {
	p, err := lookup[T](r, name)
	if err != nil {
		return err
	}
	return p.Set(v)
}

// Get returns the current value of the named parameter.
func Get[T param.Value](r *Registry, name string) (T, error) {
	p, err := lookup[T](r, name)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.Get(), nil
}

// MustGet is like Get but panics when the name is unknown or typed
// differently. Callers are expected to know their own schema.
func MustGet[T param.Value](r *Registry, name string) T {
	v, err := Get[T](r, name)
	if err != nil {
		panic(err)
	}
	return v
}

// GetOr returns the current value of name, or fallback when name is not
// defined. A parameter that exists under a different type is a programming
// error and panics; only absence falls back.
func GetOr[T param.Value](r *Registry, name string, fallback T) T {
	v, err := Get[T](r, name)
	switch {
	case err == nil:
		return v
	case errors.Is(err, param.ErrUnknownParameter):
		return fallback
	default:
		panic(fmt.Errorf("get %q: %w", name, err))
	}
}
