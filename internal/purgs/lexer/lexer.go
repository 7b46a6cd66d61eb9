// Package lexer turns purgs source text into a token stream that makes the
// off-side rule explicit.
//
// Lexing happens in two layers. The Tokenizer classifies raw characters and
// never fails. The Lexer consumes raw tokens and replaces leading indentation
// with synthetic Indent and Dedent tokens, inserting a Newline after every
// run of Dedents so that the parser sees a uniform sibling separator.
//
// For every input that lexes successfully the number of Indent tokens equals
// the number of Dedent tokens and the depth is back to zero at EOF.
package lexer

import "fmt"

// DefaultOptions is used by Lex when no options are given.
var DefaultOptions = Options{}

// Options tunes the structural layer.
type Options struct {
	// AllowMixedIndent disables the check that every indentation run in a
	// document uses the same unit. When set, tab runs count one level per
	// tab and space runs one level per four spaces, and the two are
	// compared as plain integers.
	AllowMixedIndent bool
}

// Lexer is the off-side rule state machine layered over a Tokenizer.
type Lexer struct {
	tok  *Tokenizer
	opts Options

	depth           int
	pendingDedents  int
	trailingNewline bool

	unit    byte
	started bool
	atEOF   bool
}

// NewLexer returns a structural lexer over src.
func NewLexer(src string, opts Options) *Lexer {
	return &Lexer{tok: NewTokenizer(src), opts: opts}
}

// Depth reports the current indentation depth.
func (l *Lexer) Depth() int { return l.depth }

// Next returns the next structural token. Once the input is exhausted and
// every open level is closed it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		if l.pendingDedents == 0 && !l.atEOF {
			l.trailingNewline = true
		}
		return l.synthetic(Dedent), nil
	}
	if l.trailingNewline {
		l.trailingNewline = false
		return l.synthetic(Newline), nil
	}
	if !l.started {
		l.started = true
		l.skipBlankLines()
	}

	for {
		raw, ok := l.tok.Next()
		if !ok {
			if l.depth == 0 {
				return raw, nil
			}
			l.atEOF = true
			l.pendingDedents = l.depth - 1
			l.depth = 0
			return l.synthetic(Dedent), nil
		}

		switch raw.Kind {
		case indentRun:
			depth, err := l.measure(raw)
			if err != nil {
				return Token{}, err
			}
			switch {
			case depth == l.depth:
				continue
			case depth > l.depth:
				if depth > l.depth+1 {
					return Token{}, &LexError{
						Span:   raw.Span,
						Text:   raw.Text,
						Reason: fmt.Sprintf("indentation jumps from depth %d to %d", l.depth, depth),
					}
				}
				l.depth = depth
				return Token{Kind: Indent, Text: raw.Text, Span: raw.Span}, nil
			default:
				l.pendingDedents = l.depth - depth - 1
				l.depth = depth
				l.trailingNewline = true
				return Token{Kind: Dedent, Span: Span{raw.Span.Start, raw.Span.Start}}, nil
			}

		case Newline:
			l.skipBlankLines()
			switch l.peekRaw().Kind {
			case indentRun:
			case EOF:
				// A final newline separates nothing; EOF does the unwinding.
				continue
			default:
				if l.depth > 0 {
					l.pendingDedents = l.depth
					l.depth = 0
				}
			}
			return raw, nil

		default:
			return raw, nil
		}
	}
}

// Lex runs the structural lexer over src and returns every token up to and
// including the terminating EOF.
func Lex(src string, opts Options) ([]Token, error) {
	l := NewLexer(src, opts)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

func (l *Lexer) measure(run Token) (int, error) {
	unit := run.Text[0]
	if l.unit == 0 {
		l.unit = unit
	} else if unit != l.unit && !l.opts.AllowMixedIndent {
		return 0, &LexError{
			Span:   run.Span,
			Text:   run.Text,
			Reason: fmt.Sprintf("mixed indentation: document is indented with %s, line uses %s", unitName(l.unit), unitName(unit)),
		}
	}
	if unit == '\t' {
		return len(run.Text), nil
	}
	return len(run.Text) / len(spaceGroup), nil
}

// skipBlankLines drops lines holding nothing but indentation and spaces,
// including such a tail at end of input.
func (l *Lexer) skipBlankLines() {
	for {
		mark := l.tok.mark()
		for {
			tok, ok := l.tok.Next()
			if !ok {
				return
			}
			if tok.Kind == Newline {
				break
			}
			if tok.Kind != indentRun && tok.Kind != WhiteSpace {
				l.tok.reset(mark)
				return
			}
		}
	}
}

func (l *Lexer) peekRaw() Token {
	mark := l.tok.mark()
	tok, _ := l.tok.Next()
	l.tok.reset(mark)
	return tok
}

func (l *Lexer) synthetic(k Kind) Token {
	pos := l.tok.mark()
	return Token{Kind: k, Span: Span{pos, pos}}
}

func unitName(unit byte) string {
	if unit == '\t' {
		return "tabs"
	}
	return "spaces"
}
