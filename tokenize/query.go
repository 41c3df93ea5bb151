package tokenize

import "github.com/outofforest/ftsradix/query"

// QueryTokenizer layers the three operator sigils ('-' NOT, '|' OR, '+'
// AND) on top of the same word-splitting rule the text tokenizer uses
// (spec §6). A sigil may prefix a word directly or stand alone before it;
// it attaches to the next word produced, and an unmarked word defaults to
// AND. A malformed query never fails: an unrecognized sigil is just an
// ordinary non-ASCII-letter rune, i.e. a token break, same as punctuation.
type QueryTokenizer struct{}

// NewQueryTokenizer returns a ready-to-use QueryTokenizer.
func NewQueryTokenizer() *QueryTokenizer {
	return &QueryTokenizer{}
}

// Tokenize turns a raw query string into classified query tokens.
func (q *QueryTokenizer) Tokenize(text string) []query.Token {
	folded := Fold(text)

	var tokens []query.Token
	pending := query.And
	wordStart := -1

	flushWord := func(end int) {
		if wordStart < 0 {
			return
		}
		tokens = append(tokens, query.Token{Op: pending, Text: folded[wordStart:end]})
		wordStart = -1
		pending = query.And
	}

	for i, r := range folded {
		switch {
		case isASCIILetter(r):
			if wordStart < 0 {
				wordStart = i
			}
		case r == '-':
			flushWord(i)
			pending = query.Not
		case r == '|':
			flushWord(i)
			pending = query.Or
		case r == '+':
			flushWord(i)
			pending = query.And
		default:
			flushWord(i)
		}
	}
	flushWord(len(folded))

	return tokens
}
