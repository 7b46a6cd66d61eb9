package lexer

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleDocument = "html\n\thead\n\t\tmeta(width=\"device-width=true\")\n\tbody\n\t\tdiv#content.hello Hello World\nanotertoplevelthinglolhaha"

func TestLexSampleDocument(t *testing.T) {
	toks, err := Lex(sampleDocument, DefaultOptions)
	require.NoError(t, err)

	want := []Kind{
		Text, Newline,
		Indent, Text, Newline,
		Indent, Text, OpenParen, Text, Equals, Quote, Text, Equals, Text, Quote, CloseParen, Newline,
		Dedent, Newline,
		Text, Newline,
		Indent, Text, Hash, Text, Dot, Text, WhiteSpace, Text, WhiteSpace, Text, Newline,
		Dedent, Dedent, Newline,
		Text,
		EOF,
	}
	if diff := cmp.Diff(want, kindsOf(toks)); diff != "" {
		t.Errorf("Lex kinds mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, Span{len(sampleDocument), len(sampleDocument)}, toks[len(toks)-1].Span)
}

func TestLexStructure(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{
			name: "empty",
			src:  "",
			want: []Kind{EOF},
		},
		{
			name: "siblings",
			src:  "a\nb",
			want: []Kind{Text, Newline, Text, EOF},
		},
		{
			name: "dedent by indentation run",
			src:  "a\n\tb\n\t\tc\n\td",
			want: []Kind{Text, Newline, Indent, Text, Newline, Indent, Text, Newline, Dedent, Newline, Text, Dedent, EOF},
		},
		{
			name: "two-level dedent by indentation run",
			src:  "a\n\tb\n\t\tc\n\t\t\td\n\te",
			want: []Kind{
				Text, Newline, Indent, Text, Newline, Indent, Text, Newline, Indent, Text, Newline,
				Dedent, Dedent, Newline, Text, Dedent, EOF,
			},
		},
		{
			name: "full unwind to a top-level line",
			src:  "a\n\tb\n\t\tc\nd",
			want: []Kind{Text, Newline, Indent, Text, Newline, Indent, Text, Newline, Dedent, Dedent, Newline, Text, EOF},
		},
		{
			name: "equal indentation emits nothing",
			src:  "a\n\tb\n\tc",
			want: []Kind{Text, Newline, Indent, Text, Newline, Text, Dedent, EOF},
		},
		{
			name: "space groups",
			src:  "a\n    b\n        c\n    d",
			want: []Kind{Text, Newline, Indent, Text, Newline, Indent, Text, Newline, Dedent, Newline, Text, Dedent, EOF},
		},
		{
			name: "end of input unwinds without a newline",
			src:  "a\n\tb\n\t\tc",
			want: []Kind{Text, Newline, Indent, Text, Newline, Indent, Text, Dedent, Dedent, EOF},
		},
		{
			name: "trailing newline",
			src:  "a\n\tb\n",
			want: []Kind{Text, Newline, Indent, Text, Dedent, EOF},
		},
		{
			name: "blank lines are skipped",
			src:  "\n\n  \na\n\n\t\n\tb\n\n    \n",
			want: []Kind{Text, Newline, Indent, Text, Dedent, EOF},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := Lex(tc.src, DefaultOptions)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, kindsOf(toks)); diff != "" {
				t.Errorf("Lex(%q) kinds mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestLexIndentCarriesRun(t *testing.T) {
	toks, err := Lex("a\n\tb", DefaultOptions)
	require.NoError(t, err)
	require.Equal(t, Token{Kind: Indent, Text: "\t", Span: Span{2, 3}}, toks[2])
}

func TestLexRejectsOverIndentation(t *testing.T) {
	_, err := Lex("a\n\t\tb", DefaultOptions)
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	require.Equal(t, Span{2, 4}, lexErr.Span)
	require.Contains(t, lexErr.Error(), "indentation jumps from depth 0 to 2")
}

func TestLexMixedIndentation(t *testing.T) {
	src := "a\n\tb\n    c\n\t\td"

	_, err := Lex(src, DefaultOptions)
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	require.Equal(t, "    ", lexErr.Text)
	require.Contains(t, lexErr.Error(), "mixed indentation: document is indented with tabs, line uses spaces")

	// Raw comparison: one tab and one space group are both depth 1.
	toks, err := Lex(src, Options{AllowMixedIndent: true})
	require.NoError(t, err)
	want := []Kind{Text, Newline, Indent, Text, Newline, Text, Newline, Indent, Text, Dedent, Dedent, EOF}
	if diff := cmp.Diff(want, kindsOf(toks)); diff != "" {
		t.Errorf("mixed kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexBalancesIndentsAndDedents(t *testing.T) {
	pieces := []string{"a", "div", "\n", "\n", "\t", "\t\t", "    ", " ", "#", ".", "(", ")", "\"", "=", ",", "!"}
	rng := rand.New(rand.NewSource(7))

	lexed := 0
	for i := 0; i < 2000; i++ {
		var b strings.Builder
		for n := rng.Intn(40); n > 0; n-- {
			b.WriteString(pieces[rng.Intn(len(pieces))])
		}
		src := b.String()

		l := NewLexer(src, DefaultOptions)
		indents, dedents := 0, 0
		failed := false
		for {
			tok, err := l.Next()
			if err != nil {
				failed = true
				break
			}
			switch tok.Kind {
			case Indent:
				indents++
			case Dedent:
				dedents++
			case indentRun:
				t.Fatalf("raw indentation leaked for %q", src)
			}
			if tok.Kind == EOF {
				break
			}
		}
		if failed {
			continue
		}
		lexed++
		require.Equal(t, indents, dedents, "unbalanced blocks for %q", src)
		require.Zero(t, l.Depth(), "depth not unwound for %q", src)
	}
	require.Greater(t, lexed, 100)
}

func TestLexIsDeterministic(t *testing.T) {
	first, err := Lex(sampleDocument, DefaultOptions)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Lex(sampleDocument, DefaultOptions)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(first, again))
	}
}

func TestLexerKeepsReturningEOF(t *testing.T) {
	l := NewLexer("a", DefaultOptions)
	_, err := l.Next()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, EOF, tok.Kind)
	}
}
