package lexer

import "unicode/utf8"

const spaceGroup = "    "

// Tokenizer splits a source buffer into raw tokens. It never fails:
// characters matching no rule come out as Error tokens, one rune at a time.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer returns a tokenizer positioned at the start of src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Next returns the next raw token. At end of input it returns an EOF token
// and false.
func (t *Tokenizer) Next() (Token, bool) {
	if t.pos >= len(t.src) {
		return Token{Kind: EOF, Span: Span{len(t.src), len(t.src)}}, false
	}
	start := t.pos
	c := t.src[start]

	switch {
	case t.atLineStart() && c == '\t':
		end := start
		for end < len(t.src) && t.src[end] == '\t' {
			end++
		}
		return t.emit(indentRun, end), true
	case t.atLineStart() && t.spaceGroupAt(start):
		end := start
		for t.spaceGroupAt(end) {
			end += len(spaceGroup)
		}
		return t.emit(indentRun, end), true
	case isTextByte(c):
		end := start + 1
		for end < len(t.src) && isTextByte(t.src[end]) {
			end++
		}
		return t.emit(Text, end), true
	}

	switch c {
	case '\n':
		return t.emit(Newline, start+1), true
	case '"', '\'':
		return t.emit(Quote, start+1), true
	case '.':
		return t.emit(Dot, start+1), true
	case '#':
		return t.emit(Hash, start+1), true
	case '(':
		return t.emit(OpenParen, start+1), true
	case ')':
		return t.emit(CloseParen, start+1), true
	case '=':
		return t.emit(Equals, start+1), true
	case ',':
		return t.emit(Comma, start+1), true
	case ' ', '\t':
		return t.emit(WhiteSpace, start+1), true
	}

	_, size := utf8.DecodeRuneInString(t.src[start:])
	return t.emit(Error, start+size), true
}

// Tokenize returns every raw token of src, including leading indentation
// runs, without the trailing EOF.
func Tokenize(src string) []Token {
	t := NewTokenizer(src)
	var out []Token
	for {
		tok, ok := t.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func (t *Tokenizer) emit(k Kind, end int) Token {
	tok := Token{Kind: k, Text: t.src[t.pos:end], Span: Span{t.pos, end}}
	t.pos = end
	return tok
}

func (t *Tokenizer) atLineStart() bool {
	return t.pos == 0 || t.src[t.pos-1] == '\n'
}

func (t *Tokenizer) spaceGroupAt(i int) bool {
	return i+len(spaceGroup) <= len(t.src) && t.src[i:i+len(spaceGroup)] == spaceGroup
}

// mark and reset give the structural layer bounded lookahead.
func (t *Tokenizer) mark() int     { return t.pos }
func (t *Tokenizer) reset(pos int) { t.pos = pos }

func isTextByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}
