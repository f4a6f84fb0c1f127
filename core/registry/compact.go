package registry

import (
	"fmt"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/pkg/compact"
	"github.com/artpar/paramset/ports"
)

// Compact format errors, re-exported for callers of FromCompactString.
var (
	ErrMissingEquals  = compact.ErrMissingEquals
	ErrTrailingEscape = compact.ErrTrailingEscape
)

// ToCompactString renders every parameter as "name=value" joined by ';',
// with names in lexicographic order. Reserved characters in names and values
// are escaped, so the output is deterministic and parses back unchanged.
func (r *Registry) ToCompactString() string {
	names := r.Names()
	pairs := make([]compact.Pair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, compact.Pair{Key: name, Value: r.params[name].Text()})
	}
	r.observeEncode(ports.FormatCompact)
	return compact.Join(pairs)
}

// FromCompactString parses s and assigns the values it carries.
//
// Decoding is strict and all-or-nothing: every entry is resolved, parsed and
// validated before any value is assigned, so on error the registry is left
// exactly as it was. Entries are checked in order and the first failing one
// is reported; only a trailing escape, which makes the whole input
// unreadable, is reported ahead of them. Parameters not mentioned in s keep
// their values. When a name appears more than once the last entry wins.
func (r *Registry) FromCompactString(s string) (err error) {
	defer func() { r.observeDecode(ports.FormatCompact, err) }()

	tokens, err := compact.Tokens(s)
	if err != nil {
		return r.rejected(ports.FormatCompact, "", err)
	}

	batch := make([]pending, 0, len(tokens))
	for _, tok := range tokens {
		pair, err := compact.ParseEntry(tok)
		if err != nil {
			return r.rejected(ports.FormatCompact, "", err)
		}
		e, ok := r.params[pair.Key]
		if !ok {
			return r.rejected(ports.FormatCompact, pair.Key,
				fmt.Errorf("%w: %q", param.ErrUnknownParameter, pair.Key))
		}
		if err := e.CheckText(pair.Value); err != nil {
			return r.rejected(ports.FormatCompact, pair.Key, err)
		}
		batch = append(batch, pending{entry: e, text: pair.Value})
	}
	return r.commit(batch)
}

// pending is a validated assignment waiting for the whole batch to pass.
type pending struct {
	entry param.Entry
	text  string
}

func (r *Registry) commit(batch []pending) error {
	for _, p := range batch {
		// Already validated by CheckText; a failure here means an Entry
		// implementation disagrees with itself.
		if err := p.entry.ParseText(p.text); err != nil {
			return fmt.Errorf("commit %q: %w", p.entry.Name(), err)
		}
	}
	return nil
}

func (r *Registry) rejected(format, name string, err error) error {
	ev := r.logger.Debug().Str("format", format).Err(err)
	if name != "" {
		ev = ev.Str("param", name)
	}
	ev.Msg("decode rejected")
	return err
}

func (r *Registry) observeEncode(format string) {
	if r.observer != nil {
		r.observer.ObserveEncode(format)
	}
}

func (r *Registry) observeDecode(format string, err error) {
	if r.observer != nil {
		r.observer.ObserveDecode(format, err)
	}
}
