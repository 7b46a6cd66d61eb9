// Package diag renders lexer and parser errors against their source, with
// the offending line and a caret under the error position:
//
//	index.pug:2:7: expected Quote, found Text("b") at 11..12
//	   2 | div(a=b)
//	     |       ^
package diag

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Purgs-Association/Purgs/internal/purgs/lexer"
	"github.com/Purgs-Association/Purgs/internal/purgs/parser"
)

// Error is a positioned error with a rendered source snippet. Unwrap
// returns the original error.
type Error struct {
	Name    string
	Line    int // 1-based
	Col     int // 1-based, in runes
	Err     error
	snippet string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%d:%d: %v", e.Line, e.Col, e.Err)
	if e.snippet != "" {
		b.WriteByte('\n')
		b.WriteString(e.snippet)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// SpanOf extracts the source span carried by err, if any.
func SpanOf(err error) (lexer.Span, bool) {
	var (
		lexErr   *lexer.LexError
		tokErr   *parser.ExpectedTokenError
		eofErr   *parser.UnexpectedEOFError
		extraErr *parser.ExpectedEOFError
		depthErr *parser.DepthError
	)
	switch {
	case errors.As(err, &lexErr):
		return lexErr.Span, true
	case errors.As(err, &tokErr):
		return tokErr.Found.Span, true
	case errors.As(err, &eofErr):
		return eofErr.Span, true
	case errors.As(err, &extraErr):
		return extraErr.Found.Span, true
	case errors.As(err, &depthErr):
		return depthErr.Span, true
	}
	return lexer.Span{}, false
}

// Annotate wraps err in an *Error positioned against src. Errors without a
// span are returned unchanged.
func Annotate(err error, name, src string) error {
	if err == nil {
		return nil
	}
	span, ok := SpanOf(err)
	if !ok {
		return err
	}
	offset := min(max(span.Start, 0), len(src))
	if offset == len(src) && offset > 0 && src[offset-1] == '\n' {
		// End of input after a final newline points at the last line.
		offset--
	}

	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	lineEnd := len(src)
	if i := strings.IndexByte(src[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	line := strings.Count(src[:lineStart], "\n") + 1
	prefix := src[lineStart:offset]
	text := src[lineStart:lineEnd]

	gutter := fmt.Sprintf("%4d | ", line)
	var b strings.Builder
	b.WriteString(gutter)
	b.WriteString(text)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(gutter)-2))
	b.WriteString("| ")
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')

	return &Error{
		Name:    name,
		Line:    line,
		Col:     utf8.RuneCountInString(prefix) + 1,
		Err:     err,
		snippet: b.String(),
	}
}
