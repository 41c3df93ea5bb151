// Package tokenize provides the default implementations of the two
// external collaborators spec §1/§6 leave as "contract only": the text
// tokenizer that turns free text into words, and the query tokenizer that
// layers AND/OR/NOT sigils on top of the same word-splitting rule. Both
// are ordinary interfaces the index takes by construction, so a caller
// can swap in a different tokenizer entirely (spec §1's whole point in
// keeping them out of the core).
package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextTokenizer turns a string into the sequence of words it should be
// indexed or searched under. Tokens must be non-empty.
type TextTokenizer interface {
	Tokenize(text string) []string
}

// Default implements spec §6's default text tokenizer behavior: Unicode
// NFD normalization, non-spacing marks dropped (diacritic folding),
// lowercased, then split on any rune that isn't an ASCII letter; empty
// tokens are dropped.
//
// The NFD-fold-then-strip-marks pipeline is golang.org/x/text's
// idiomatic recipe for diacritic stripping (unicode/norm + runes +
// transform), promoted here from the teacher's indirect dependency on
// golang.org/x/text to a direct one (see SPEC_FULL.md's dependency
// table).
type Default struct{}

// NewDefault returns a ready-to-use Default tokenizer.
func NewDefault() *Default {
	return &Default{}
}

// Tokenize implements TextTokenizer.
func (d *Default) Tokenize(text string) []string {
	folded := Fold(text)

	var tokens []string
	start := -1
	for i, r := range folded {
		if isASCIILetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, folded[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, folded[start:])
	}
	return tokens
}

// Fold applies the diacritic-folding, invariant-culture-lowercase
// normalization spec §6 requires of the default tokenizer: NFD
// decomposition, drop every non-spacing mark, recompose, lowercase. It is
// exported so QueryTokenizer can apply the identical fold before scanning
// for operator sigils.
func Fold(text string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, text)
	if err != nil {
		// transform.String only fails on malformed input the
		// transformer can't make progress on; fall back to the
		// original text rather than losing the whole call.
		folded = text
	}
	return strings.ToLower(folded)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
