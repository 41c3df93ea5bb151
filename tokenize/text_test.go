package tokenize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/ftsradix/query"
	"github.com/outofforest/ftsradix/tokenize"
)

func TestDefault_Tokenize_SplitsOnNonLetters(t *testing.T) {
	d := tokenize.NewDefault()
	got := d.Tokenize("this is a simple example, with 123 numbers!")
	require.Equal(t, []string{"this", "is", "a", "simple", "example", "with", "numbers"}, got)
}

func TestDefault_Tokenize_Lowercases(t *testing.T) {
	d := tokenize.NewDefault()
	require.Equal(t, []string{"this", "is", "upper"}, d.Tokenize("THIS Is UPPER"))
}

func TestDefault_Tokenize_FoldsDiacritics(t *testing.T) {
	d := tokenize.NewDefault()
	got := d.Tokenize("café naïve")
	require.Equal(t, []string{"cafe", "naive"}, got)
}

func TestDefault_Tokenize_EmptyStringYieldsNoTokens(t *testing.T) {
	d := tokenize.NewDefault()
	require.Empty(t, d.Tokenize(""))
}

func TestDefault_Tokenize_OnlyPunctuationYieldsNoTokens(t *testing.T) {
	d := tokenize.NewDefault()
	require.Empty(t, d.Tokenize("... --- !!!"))
}

func TestFold_IsIdempotent(t *testing.T) {
	once := tokenize.Fold("Café")
	twice := tokenize.Fold(once)
	require.Equal(t, once, twice)
}

func TestQueryTokenizer_DefaultsToAnd(t *testing.T) {
	q := tokenize.NewQueryTokenizer()
	got := q.Tokenize("this is")
	require.Equal(t, []query.Token{
		{Op: query.And, Text: "this"},
		{Op: query.And, Text: "is"},
	}, got)
}

func TestQueryTokenizer_SigilsAttachToNextWord(t *testing.T) {
	q := tokenize.NewQueryTokenizer()
	got := q.Tokenize("this -is |simple +example")
	require.Equal(t, []query.Token{
		{Op: query.And, Text: "this"},
		{Op: query.Not, Text: "is"},
		{Op: query.Or, Text: "simple"},
		{Op: query.And, Text: "example"},
	}, got)
}

func TestQueryTokenizer_SigilCanStandAloneBeforeWord(t *testing.T) {
	q := tokenize.NewQueryTokenizer()
	got := q.Tokenize("- one")
	require.Equal(t, []query.Token{
		{Op: query.Not, Text: "one"},
	}, got)
}

func TestQueryTokenizer_TrailingSigilWithNoWordProducesNoToken(t *testing.T) {
	q := tokenize.NewQueryTokenizer()
	got := q.Tokenize("word -")
	require.Equal(t, []query.Token{
		{Op: query.And, Text: "word"},
	}, got)
}

func TestQueryTokenizer_FoldsBeforeScanning(t *testing.T) {
	q := tokenize.NewQueryTokenizer()
	got := q.Tokenize("-NAÏVE")
	require.Equal(t, []query.Token{
		{Op: query.Not, Text: "naive"},
	}, got)
}
