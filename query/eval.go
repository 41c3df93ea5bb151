package query

import (
	"iter"

	"github.com/samber/lo"
)

// Index is the slice of tree capability the evaluator needs: a prefix
// lookup and a full-tree walk. radix.Tree satisfies this without query
// importing radix, keeping the dependency one-directional.
type Index[K comparable] interface {
	LookupPrefix(prefix []byte) iter.Seq[K]
	AllKeys() iter.Seq[K]
}

// Evaluate runs tokens against idx following the precedence rules of spec
// §4.2 and returns the matching keys. Whether the result is deduplicated
// and ordered depends on which evaluation path was taken — see the
// per-case comments below; callers that need a deduplicated result should
// collect into a set regardless.
func Evaluate[K comparable](idx Index[K], tokens []Token) iter.Seq[K] {
	switch {
	case len(tokens) == 0:
		// Rule 1: empty token list -> empty result.
		return func(func(K) bool) {}

	case isAllOR(tokens):
		// Rule 2: all-OR fast path. Concatenates every token's prefix
		// lookup verbatim, including duplicates across tokens. This is
		// deliberately NOT the same code path as the general case's OR
		// union (spec §9 "allCombined" open question) — "x | y" and
		// "x y | z" are allowed to disagree with what a unified
		// AND/OR/NOT reducer would produce, and that divergence is
		// preserved rather than papered over.
		return func(yield func(K) bool) {
			for _, t := range tokens {
				for k := range idx.LookupPrefix([]byte(t.Text)) {
					if !yield(k) {
						return
					}
				}
			}
		}

	case len(tokens) == 1:
		return evaluateSingle(idx, tokens[0])

	default:
		return evaluateGeneral(idx, tokens)
	}
}

// isAllOR reports whether tokens matches the Rule 2 shape: the first
// token is not NOT, and every token after it is OR. The first token
// itself may be AND or OR.
func isAllOR(tokens []Token) bool {
	if len(tokens) == 0 || tokens[0].Op == Not {
		return false
	}
	for _, t := range tokens[1:] {
		if t.Op != Or {
			return false
		}
	}
	return true
}

func evaluateSingle[K comparable](idx Index[K], t Token) iter.Seq[K] {
	if t.Op != Not {
		// Rule 3, non-NOT branch: forward the raw, non-deduplicated
		// lookup sequence.
		return idx.LookupPrefix([]byte(t.Text))
	}
	// Rule 3, NOT branch: all_keys() minus lookup_prefix(t.text),
	// deduplicated.
	excluded := toSet(idx.LookupPrefix([]byte(t.Text)))
	return func(yield func(K) bool) {
		seen := make(map[K]struct{}, len(excluded))
		for k := range idx.AllKeys() {
			if _, skip := excluded[k]; skip {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if !yield(k) {
				return
			}
		}
	}
}

func evaluateGeneral[K comparable](idx Index[K], tokens []Token) iter.Seq[K] {
	var ors, ands, nots []Token
	for _, t := range tokens {
		switch t.Op {
		case Or:
			ors = append(ors, t)
		case Not:
			nots = append(nots, t)
		default:
			ands = append(ands, t)
		}
	}

	// Step a: union of every OR token's prefix lookup.
	s := make(map[K]struct{})
	for _, t := range ors {
		for k := range idx.LookupPrefix([]byte(t.Text)) {
			s[k] = struct{}{}
		}
	}

	// Step b: intersect with each AND token in order. The first AND seeds
	// the set outright when nothing from the OR union survived (there
	// being no OR tokens is the common case of this).
	for i, t := range ands {
		lookup := toSet(idx.LookupPrefix([]byte(t.Text)))
		if len(s) == 0 && i == 0 {
			s = lookup
			continue
		}
		s = intersect(s, lookup)
	}

	// Step c: subtract every NOT token's prefix lookup.
	for _, t := range nots {
		lookup := toSet(idx.LookupPrefix([]byte(t.Text)))
		for k := range lookup {
			delete(s, k)
		}
	}

	keys := lo.Keys(s)
	return func(yield func(K) bool) {
		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}

func toSet[K comparable](seq iter.Seq[K]) map[K]struct{} {
	s := make(map[K]struct{})
	for k := range seq {
		s[k] = struct{}{}
	}
	return s
}

func intersect[K comparable](a, b map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
