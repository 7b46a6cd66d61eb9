package lexer

import "fmt"

// LexError reports source text the lexer could not accept: an unrecognized
// character that a parser rule tripped over, or an indentation problem.
type LexError struct {
	Span Span
	Text string
	// Reason is empty for unrecognized characters.
	Reason string
}

func (e *LexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("lexer error at %s: %s", e.Span, e.Reason)
	}
	return fmt.Sprintf("lexer error at %s: unexpected %q", e.Span, e.Text)
}
