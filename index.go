// Package ftsradix is an embeddable in-memory full-text search index keyed
// by arbitrary user values. Text associated with a key is tokenized and
// inserted into a byte-radix tree (package radix); queries are tokenized
// into a small AND/OR/NOT language (package query) and evaluated against
// the same tree. The index can be saved to and restored from a compact
// binary stream (package serialize).
//
// Everything domain-specific — how text becomes words, how a key becomes
// its text representation — is pluggable: New takes the tree's storage
// flavor, the text/query tokenizers, and the key codec as Options, so the
// core tree and evaluator never know about any of them concretely.
package ftsradix

import (
	"errors"
	"io"
	"iter"

	"github.com/outofforest/ftsradix/codec"
	"github.com/outofforest/ftsradix/query"
	"github.com/outofforest/ftsradix/radix"
	"github.com/outofforest/ftsradix/radix/store"
	"github.com/outofforest/ftsradix/serialize"
	"github.com/outofforest/ftsradix/tokenize"
)

// QueryTokenizer classifies a raw query string into AND/OR/NOT tokens
// (spec §6). tokenize.QueryTokenizer is the default implementation.
type QueryTokenizer interface {
	Tokenize(query string) []query.Token
}

// Index is the full-text search index. The zero value is not usable;
// build one with New.
type Index[K comparable] struct {
	tree           *radix.Tree[K]
	factory        store.Factory[K]
	textTokenizer  tokenize.TextTokenizer
	queryTokenizer QueryTokenizer
	codec          codec.Codec[K]

	// keysCount counts Add calls, not distinct keys (I5): it increments
	// once per Add/AddKey call regardless of how many tokens the text
	// produced, and is reset to the intern-table size on Load (I6). It
	// is a plain int, not an atomic one, even under the guarded and
	// lock-free storage flavors — callers reading it concurrently with a
	// mutation may see a stale or torn value (spec §5).
	keysCount int
}

// Option configures an Index at construction time.
type Option[K comparable] func(*Index[K])

// WithStorage selects the tree's concurrency flavor. The default is
// store.NewBasic, the unsynchronized, single-goroutine flavor.
func WithStorage[K comparable](factory store.Factory[K]) Option[K] {
	return func(idx *Index[K]) { idx.factory = factory }
}

// WithTextTokenizer overrides the default diacritic-folding tokenizer
// (tokenize.Default).
func WithTextTokenizer[K comparable](t tokenize.TextTokenizer) Option[K] {
	return func(idx *Index[K]) { idx.textTokenizer = t }
}

// WithQueryTokenizer overrides the default sigil-aware query tokenizer
// (tokenize.QueryTokenizer).
func WithQueryTokenizer[K comparable](q QueryTokenizer) Option[K] {
	return func(idx *Index[K]) { idx.queryTokenizer = q }
}

// WithCodec supplies the key codec Add (text derivation) and Save/Load
// (key interning) use. Required for any K other than string.
func WithCodec[K comparable](c codec.Codec[K]) Option[K] {
	return func(idx *Index[K]) { idx.codec = c }
}

// New builds an empty Index. With no options it uses the basic
// (unsynchronized) storage flavor, the default diacritic-folding
// tokenizer, and — only when K is string — the identity key codec.
func New[K comparable](opts ...Option[K]) *Index[K] {
	idx := &Index[K]{
		factory:        store.NewBasic[K](),
		textTokenizer:  tokenize.NewDefault(),
		queryTokenizer: tokenize.NewQueryTokenizer(),
		codec:          defaultCodec[K](),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.tree = radix.New(idx.factory)
	return idx
}

func defaultCodec[K comparable]() codec.Codec[K] {
	var zero K
	if _, ok := any(zero).(string); ok {
		return any(codec.String{}).(codec.Codec[K])
	}
	return nil
}

// Add tokenizes text and inserts key under every resulting token.
// KeysCount increments exactly once per call, regardless of how many
// tokens (including zero) the text produced (I5).
func (idx *Index[K]) Add(key K, text string) {
	for _, tok := range idx.textTokenizer.Tokenize(text) {
		idx.tree.Insert(key, []byte(tok))
	}
	idx.keysCount++
}

// AddKey is Add with the text derived from key via the configured codec
// (spec §4.1 "Add(key) with no text argument"). It returns ErrNoCodec if
// no codec was configured.
func (idx *Index[K]) AddKey(key K) error {
	if idx.codec == nil {
		return wrapErr(InvalidArgument, ErrNoCodec)
	}
	text, err := idx.codec.Encode(key)
	if err != nil {
		return wrapErr(KeyCodecError, err)
	}
	idx.Add(key, text)
	return nil
}

// Search tokenizes queryText with the query tokenizer and evaluates it
// against the tree, returning the matching keys per the precedence rules
// of spec §4.2. The sequence may contain duplicates; wrap it in Distinct
// if you need a deduplicated result (most callers do).
func (idx *Index[K]) Search(queryText string) iter.Seq[K] {
	tokens := idx.queryTokenizer.Tokenize(queryText)
	return query.Evaluate[K](idx.tree, tokens)
}

// Distinct deduplicates a lazy sequence, preserving first-seen order.
func Distinct[K comparable](seq iter.Seq[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		seen := make(map[K]struct{})
		for k := range seq {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if !yield(k) {
				return
			}
		}
	}
}

// AllKeys returns every key in every node's bag, in tree-traversal order
// (not deduplicated).
func (idx *Index[K]) AllKeys() iter.Seq[K] {
	return idx.tree.AllKeys()
}

// Remove deletes every one of keys from the index and returns how many
// distinct keys among them were present at least once. KeysCount
// decreases by that same count (spec §8 P6).
func (idx *Index[K]) Remove(keys ...K) int {
	n := idx.tree.Remove(keys)
	idx.keysCount -= n
	return n
}

// KeysCount returns the running Add-call count (I5), or — after a
// successful Load — the number of distinct interned keys (I6).
func (idx *Index[K]) KeysCount() int {
	return idx.keysCount
}

// Save writes the index to w uncompressed.
func (idx *Index[K]) Save(w io.Writer) error {
	if idx.codec == nil {
		return wrapErr(InvalidArgument, ErrNoCodec)
	}
	if err := serialize.Save(w, idx.tree, idx.codec); err != nil {
		return wrapErr(IoError, err)
	}
	return nil
}

// SaveCompressed writes the index to w with the gzip envelope enabled.
func (idx *Index[K]) SaveCompressed(w io.Writer) error {
	if idx.codec == nil {
		return wrapErr(InvalidArgument, ErrNoCodec)
	}
	if err := serialize.SaveCompressed(w, idx.tree, idx.codec); err != nil {
		return wrapErr(IoError, err)
	}
	return nil
}

// Load replaces the index's contents with the tree read from r. On
// failure the index is left exactly as it was: the new tree is built in
// full before anything is swapped in (spec §7).
func (idx *Index[K]) Load(r io.Reader) error {
	if idx.codec == nil {
		return wrapErr(InvalidArgument, ErrNoCodec)
	}
	tree, internedCount, err := serialize.Load(r, idx.factory, idx.codec)
	if err != nil {
		switch {
		case errors.Is(err, serialize.ErrKeyCodec):
			return wrapErr(KeyCodecError, err)
		case isMalformed(err):
			return wrapErr(MalformedInput, err)
		default:
			return wrapErr(IoError, err)
		}
	}

	idx.tree = tree
	// I6: KeysCount after Load is the number of distinct interned keys,
	// not an Add-call count — an intentional asymmetry with I5.
	idx.keysCount = internedCount
	return nil
}

func isMalformed(err error) bool {
	return errors.Is(err, serialize.ErrBadMagic) ||
		errors.Is(err, serialize.ErrUnknownCompression) ||
		errors.Is(err, serialize.ErrTruncated) ||
		errors.Is(err, serialize.ErrInternIndexOutOfRange)
}
