package lexer

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a Token.
type Kind uint8

const (
	EOF Kind = iota
	Indent
	Dedent
	Newline
	Text
	Quote
	Dot
	Hash
	OpenParen
	CloseParen
	Equals
	Comma
	WhiteSpace
	Error

	// indentRun is the raw leading run of tabs or four-space groups. The
	// structural layer turns it into Indent/Dedent and never hands it out.
	indentRun
)

var kindNames = [...]string{
	EOF:        "EOF",
	Indent:     "Indent",
	Dedent:     "Dedent",
	Newline:    "Newline",
	Text:       "Text",
	Quote:      "Quote",
	Dot:        "Dot",
	Hash:       "Hash",
	OpenParen:  "OpenParen",
	CloseParen: "CloseParen",
	Equals:     "Equals",
	Comma:      "Comma",
	WhiteSpace: "WhiteSpace",
	Error:      "Error",
	indentRun:  "IndentRun",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Span is a half-open byte range [Start, End) into the source buffer.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Token is a single lexical unit. Text is the matched source slice; it is
// empty for Dedent, EOF and the Newline inserted after a Dedent run.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

// String renders the token the way diagnostics print it, e.g. Text("div").
// A valued kind with no text, as used in expected sets, prints as the bare
// kind.
func (t Token) String() string {
	switch t.Kind {
	case Text, Quote, Error:
		if t.Text != "" {
			return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
		}
	}
	return t.Kind.String()
}

// Is reports whether t has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }
