// Package codec provides the key codec contract (§6): the hook the index
// uses to turn an opaque user key into text (for both the default-text
// derivation in Add and the intern table in the binary format) and back
// again on Load.
package codec

import (
	"encoding"
	"fmt"
)

// Codec converts values of K to and from their text representation. Encode
// is used both to derive Add's default search text when the caller omits
// one, and to build the save-time intern table. Decode is the Load-time
// inverse; a failing Decode is a KeyCodecError (§7) that the caller's Load
// call propagates as-is.
type Codec[K any] interface {
	Encode(key K) (string, error)
	Decode(text string) (K, error)
}

// String is the identity codec for K = string, the common case in the
// examples throughout spec §8 (S1, S2).
type String struct{}

// Encode implements Codec.
func (String) Encode(key string) (string, error) { return key, nil }

// Decode implements Codec.
func (String) Decode(text string) (string, error) { return text, nil }

// Stringer builds a Codec from a type that already knows how to render
// itself (fmt.Stringer) plus a caller-supplied parse function, for keys
// that are values, not strings — the Customer key of spec §8 scenario
// S3.
type Stringer[K fmt.Stringer] struct {
	// Parse turns text back into a K. Required; Decode returns
	// ErrNoParse if it is nil.
	Parse func(text string) (K, error)
}

// Encode implements Codec.
func (s Stringer[K]) Encode(key K) (string, error) {
	return key.String(), nil
}

// Decode implements Codec.
func (s Stringer[K]) Decode(text string) (K, error) {
	var zero K
	if s.Parse == nil {
		return zero, ErrNoParse
	}
	k, err := s.Parse(text)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrNoParse, err)
	}
	return k, nil
}

// Text adapts a type that implements encoding.TextMarshaler /
// encoding.TextUnmarshaler (the idiomatic Go round-trip-to-text pair) into
// a Codec. Decode unmarshals into a fresh K through PK, its pointer type.
type Text[K any, PK interface {
	*K
	encoding.TextUnmarshaler
}] struct {
	// Marshal extracts the encoding.TextMarshaler view of key. Most
	// callers set this to a function returning &key or key itself
	// depending on whether TextMarshaler is implemented on K or *K.
	Marshal func(key K) encoding.TextMarshaler
}

// Encode implements Codec.
func (t Text[K, PK]) Encode(key K) (string, error) {
	b, err := t.Marshal(key).MarshalText()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode implements Codec.
func (t Text[K, PK]) Decode(text string) (K, error) {
	var k K
	pk := PK(&k)
	if err := pk.UnmarshalText([]byte(text)); err != nil {
		var zero K
		return zero, fmt.Errorf("%w: %w", ErrNoParse, err)
	}
	return k, nil
}

// ErrNoParse wraps any failure, or absence, of a Decode hook.
var ErrNoParse = fmt.Errorf("codec: key could not be parsed from text")
