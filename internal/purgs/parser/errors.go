package parser

import (
	"fmt"
	"strings"

	"github.com/Purgs-Association/Purgs/internal/purgs/lexer"
)

// ExpectedTokenError reports a token that no rule accepts at its position.
// Expected lists what would have been accepted; a Quote entry carries the
// quote character that closes the value.
type ExpectedTokenError struct {
	Expected []lexer.Token
	Found    lexer.Token
}

func (e *ExpectedTokenError) Error() string {
	return fmt.Sprintf("expected %s, found %s at %s", anyOf(e.Expected), e.Found, e.Found.Span)
}

// UnexpectedEOFError reports input that ended while a rule still needed
// tokens.
type UnexpectedEOFError struct {
	Expected []lexer.Token
	Span     lexer.Span
}

func (e *UnexpectedEOFError) Error() string {
	msg := fmt.Sprintf("unexpected end of file at %s", e.Span)
	if len(e.Expected) > 0 {
		msg += ", expected " + anyOf(e.Expected)
	}
	return msg
}

// ExpectedEOFError reports tokens left over after the document.
type ExpectedEOFError struct {
	Found lexer.Token
}

func (e *ExpectedEOFError) Error() string {
	return fmt.Sprintf("expected end of file at %s, found %s", e.Found.Span, e.Found)
}

// DepthError reports nesting beyond the configured limit.
type DepthError struct {
	Limit int
	Span  lexer.Span
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("nesting deeper than %d levels at %s", e.Limit, e.Span)
}

func anyOf(toks []lexer.Token) string {
	if len(toks) == 1 {
		return toks[0].String()
	}
	names := make([]string, len(toks))
	for i, tok := range toks {
		names[i] = tok.String()
	}
	return "any of [" + strings.Join(names, ", ") + "]"
}
