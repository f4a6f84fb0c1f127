// Package compact implements the escaping and tokenizing rules of the
// compact "key=value;key=value" wire format.
//
// Within a key or value the characters '\', ';' and '=' are escaped with a
// leading '\', and so are CR and LF so that a value ending in a line break
// survives TrimLineEnding. Decoding is permissive: any character following
// an unescaped '\' is taken literally.
package compact

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// EntrySeparator separates entries.
	EntrySeparator = ';'
	// KeyValueSeparator separates a key from its value.
	KeyValueSeparator = '='
	// Escape makes the next character literal.
	Escape = '\\'
)

var (
	// ErrTrailingEscape is returned when the input ends with an unescaped '\'.
	ErrTrailingEscape = errors.New("trailing escape character")

	// ErrMissingEquals is matched by every *TokenError.
	ErrMissingEquals = errors.New("missing '=' in entry")
)

// TokenError reports an entry without an unescaped '='. Token holds the
// raw entry as it appeared in the input.
type TokenError struct {
	Token string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid entry %q: missing '='", e.Token)
}

// Is reports whether target is ErrMissingEquals.
func (e *TokenError) Is(target error) bool {
	return target == ErrMissingEquals
}

// Pair is one decoded entry.
type Pair struct {
	Key   string
	Value string
	// Raw is the entry text before unescaping.
	Raw string
}

// Quote escapes the reserved characters in s.
func Quote(s string) string {
	if !strings.ContainsAny(s, "\\;=\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == Escape || c == EntrySeparator || c == KeyValueSeparator || c == '\r' || c == '\n' {
			b.WriteByte(Escape)
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unquote removes one level of escaping from s.
func Unquote(s string) (string, error) {
	if !strings.ContainsRune(s, Escape) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	escaping := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaping {
			b.WriteByte(c)
			escaping = false
			continue
		}
		if c == Escape {
			escaping = true
			continue
		}
		b.WriteByte(c)
	}
	if escaping {
		return "", ErrTrailingEscape
	}
	return b.String(), nil
}

// Join renders pairs in the order given.
func Join(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(EntrySeparator)
		}
		b.WriteString(Quote(p.Key))
		b.WriteByte(KeyValueSeparator)
		b.WriteString(Quote(p.Value))
	}
	return b.String()
}

// Split tokenizes s into entries and decodes each of them. Empty entries
// are skipped. The whole input is checked for a trailing escape before any
// entry is decoded; after that entries are decoded in order and the first
// malformed one is reported.
func Split(s string) ([]Pair, error) {
	tokens, err := Tokens(s)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(tokens))
	for _, tok := range tokens {
		pair, err := ParseEntry(tok)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// Tokens cuts s at every unescaped ';', keeping escape sequences intact
// inside each token. Empty tokens are dropped. It fails only when s ends
// with an unescaped '\'.
func Tokens(s string) ([]string, error) {
	var (
		tokens   []string
		start    int
		escaping bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaping:
			escaping = false
		case c == Escape:
			escaping = true
		case c == EntrySeparator:
			if i > start {
				tokens = append(tokens, s[start:i])
			}
			start = i + 1
		}
	}
	if escaping {
		return nil, ErrTrailingEscape
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens, nil
}

// ParseEntry decodes one token produced by Tokens. It returns a *TokenError
// when the token has no unescaped '='.
func ParseEntry(tok string) (Pair, error) {
	eq := indexUnescaped(tok, KeyValueSeparator)
	if eq < 0 {
		return Pair{}, &TokenError{Token: tok}
	}
	key, err := Unquote(tok[:eq])
	if err != nil {
		return Pair{}, err
	}
	value, err := Unquote(tok[eq+1:])
	if err != nil {
		return Pair{}, err
	}
	return Pair{Key: key, Value: value, Raw: tok}, nil
}

// TrimLineEnding removes one final "\n" or "\r\n" from s, as appended by
// editors to text files. An escaped line break belongs to the last value
// and is kept.
func TrimLineEnding(s string) string {
	if !strings.HasSuffix(s, "\n") || escaped(s, len(s)-1) {
		return s
	}
	s = s[:len(s)-1]
	if strings.HasSuffix(s, "\r") && !escaped(s, len(s)-1) {
		s = s[:len(s)-1]
	}
	return s
}

// escaped reports whether the byte at i is preceded by an odd number of
// escape characters.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == Escape; j-- {
		n++
	}
	return n%2 == 1
}

func indexUnescaped(s string, sep byte) int {
	escaping := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaping:
			escaping = false
		case c == Escape:
			escaping = true
		case c == sep:
			return i
		}
	}
	return -1
}
