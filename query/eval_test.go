package query_test

import (
	"iter"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/ftsradix/query"
)

// fakeIndex is a hand-built Index[string] stand-in: a flat list of
// (token-prefix, keys) pairs plus the full key universe, so the
// evaluator's logic can be exercised without a real radix tree.
type fakeIndex struct {
	all     []string
	lookups map[string][]string
}

func (f *fakeIndex) LookupPrefix(prefix []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range f.lookups[string(prefix)] {
			if !yield(k) {
				return
			}
		}
	}
}

func (f *fakeIndex) AllKeys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range f.all {
			if !yield(k) {
				return
			}
		}
	}
}

func collect(seq iter.Seq[string]) []string {
	var out []string
	for k := range seq {
		out = append(out, k)
	}
	return out
}

func sorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

func newScenario() *fakeIndex {
	// Mirrors the corpus used throughout the evaluator's scenario:
	// "this is a simple example with a sample of the source document".
	return &fakeIndex{
		all: []string{"doc1"},
		lookups: map[string][]string{
			"this":    {"doc1"},
			"is":      {"doc1"},
			"simple":  {"doc1"},
			"with":    {"doc1"},
			"that":    {},
			"the":     {"doc1"},
			"rev":     {},
			"one":     {},
			"last":    {},
		},
	}
}

func TestEvaluate_EmptyTokens(t *testing.T) {
	idx := newScenario()
	got := collect(query.Evaluate[string](idx, nil))
	require.Empty(t, got)
}

func TestEvaluate_AllOrFastPathConcatenatesWithDuplicates(t *testing.T) {
	idx := &fakeIndex{
		lookups: map[string][]string{
			"a": {"x", "y"},
			"b": {"y", "z"},
		},
	}
	tokens := []query.Token{
		{Op: query.And, Text: "a"},
		{Op: query.Or, Text: "b"},
	}
	got := collect(query.Evaluate[string](idx, tokens))
	// Deliberately not deduplicated: "y" appears from both lookups.
	require.Equal(t, []string{"x", "y", "y", "z"}, got)
}

func TestEvaluate_SingleTokenAndIsRawLookup(t *testing.T) {
	idx := newScenario()
	tokens := []query.Token{{Op: query.And, Text: "this"}}
	got := collect(query.Evaluate[string](idx, tokens))
	require.Equal(t, []string{"doc1"}, got)
}

func TestEvaluate_SingleTokenNotSubtractsFromAllKeys(t *testing.T) {
	idx := newScenario()
	tokens := []query.Token{{Op: query.Not, Text: "one"}}
	got := sorted(collect(query.Evaluate[string](idx, tokens)))
	require.Equal(t, []string{"doc1"}, got)
}

func TestEvaluate_SingleTokenNotExcludesMatchedKey(t *testing.T) {
	idx := newScenario()
	tokens := []query.Token{{Op: query.Not, Text: "this"}}
	got := collect(query.Evaluate[string](idx, tokens))
	require.Empty(t, got)
}

func TestEvaluate_GeneralAndIntersection(t *testing.T) {
	idx := &fakeIndex{
		all: []string{"a", "b", "c"},
		lookups: map[string][]string{
			"this": {"a", "b"},
			"is":   {"b", "c"},
		},
	}
	tokens := []query.Token{
		{Op: query.And, Text: "this"},
		{Op: query.And, Text: "is"},
	}
	got := collect(query.Evaluate[string](idx, tokens))
	require.Equal(t, []string{"b"}, got)
}

func TestEvaluate_GeneralAndThenNot(t *testing.T) {
	idx := &fakeIndex{
		all: []string{"a", "b", "c", "d"},
		lookups: map[string][]string{
			"simple": {"a"},
			"with":   {"a", "b"},
			"sample": {"a", "b", "c"},
		},
	}
	// A leading And token forces the general path rather than the
	// all-OR fast path.
	tokens := []query.Token{
		{Op: query.And, Text: "sample"},
		{Op: query.Not, Text: "simple"},
	}
	got := sorted(collect(query.Evaluate[string](idx, tokens)))
	require.Equal(t, []string{"b", "c"}, got)
}

func TestEvaluate_GeneralPathDeduplicates(t *testing.T) {
	idx := &fakeIndex{
		all: []string{"a"},
		lookups: map[string][]string{
			"x": {"a", "a"},
			"y": {"a"},
		},
	}
	tokens := []query.Token{
		{Op: query.Or, Text: "x"},
		{Op: query.And, Text: "y"},
	}
	got := collect(query.Evaluate[string](idx, tokens))
	require.Equal(t, []string{"a"}, got)
}

func TestIsAllOR_RejectsLeadingNot(t *testing.T) {
	idx := &fakeIndex{lookups: map[string][]string{"x": {"a"}}}
	tokens := []query.Token{
		{Op: query.Not, Text: "x"},
		{Op: query.Or, Text: "x"},
	}
	// A leading NOT must never hit the all-OR fast path; the general
	// path instead takes the OR union {a} and subtracts the NOT lookup
	// {a}, leaving nothing.
	got := collect(query.Evaluate[string](idx, tokens))
	require.Empty(t, got)
}
