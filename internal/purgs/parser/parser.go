// Package parser builds an element tree from the structural token stream.
//
// Grammar, over the tokens produced by package lexer:
//
//	element     := [Text] [Hash Text] (Dot Text)* [OpenParen attrs CloseParen] [WhiteSpace content] [children]
//	attrs       := (Text [Equals quoted] [Comma] WhiteSpace*)*
//	quoted      := Quote <tokens> Quote      closing quote matches the opening one
//	content     := <tokens up to Newline>
//	children    := Newline (Indent elementList | Dedent | ε)
//	elementList := element (Newline element)* [Dedent]
//
// The parser looks one token ahead and rewinds to a saved position when a
// Newline turns out to separate siblings rather than open a block.
package parser

import (
	"strings"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
	"github.com/Purgs-Association/Purgs/internal/purgs/lexer"
)

// DefaultMaxDepth bounds block nesting unless WithMaxDepth says otherwise.
const DefaultMaxDepth = 256

type Option func(*parser)

// WithMaxDepth sets the deepest block nesting accepted before parsing fails
// with a *DepthError. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(p *parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithMixedIndent lets a document mix tab and space indentation; see
// lexer.Options.AllowMixedIndent.
func WithMixedIndent(allow bool) Option {
	return func(p *parser) {
		p.lexOpts.AllowMixedIndent = allow
	}
}

type parser struct {
	toks     []lexer.Token
	pos      int
	depth    int
	maxDepth int
	lexOpts  lexer.Options
}

// Parse lexes and parses src. The first error aborts the whole parse and
// no partial document is returned.
func Parse(src string, opts ...Option) (ast.Document, error) {
	p := newParser(opts)
	toks, err := lexer.Lex(src, p.lexOpts)
	if err != nil {
		return nil, err
	}
	return p.run(toks)
}

// ParseTokens parses an already lexed structural token stream.
func ParseTokens(toks []lexer.Token, opts ...Option) (ast.Document, error) {
	return newParser(opts).run(toks)
}

func newParser(opts []Option) *parser {
	p := &parser{maxDepth: DefaultMaxDepth, lexOpts: lexer.DefaultOptions}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parser) run(toks []lexer.Token) (ast.Document, error) {
	if n := len(toks); n == 0 || toks[n-1].Kind != lexer.EOF {
		end := 0
		if n > 0 {
			end = toks[n-1].Span.End
		}
		toks = append(toks[:n:n], lexer.Token{Kind: lexer.EOF, Span: lexer.Span{Start: end, End: end}})
	}
	p.toks = toks
	p.pos = 0

	var doc ast.Document
	if p.peek().Kind != lexer.EOF {
		els, err := p.parseElementList()
		if err != nil {
			return nil, err
		}
		doc = els
	}
	if tok := p.peek(); tok.Kind != lexer.EOF {
		return nil, &ExpectedEOFError{Found: tok}
	}
	return doc, nil
}

func (p *parser) parseElementList() ([]*ast.Element, error) {
	var els []*ast.Element
	for {
		el, closed, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		els = append(els, el)
		if closed {
			return els, nil
		}

		switch p.peek().Kind {
		case lexer.Newline:
			p.next()
		case lexer.Dedent:
			p.next()
			return els, nil
		default:
			return els, nil
		}
	}
}

// parseElement parses one element and its block. closed reports that the
// element consumed the Dedent ending the enclosing list.
func (p *parser) parseElement() (el *ast.Element, closed bool, err error) {
	el, err = p.parseHeader()
	if err != nil {
		return nil, false, err
	}
	if p.peek().Kind != lexer.Newline {
		return el, false, nil
	}

	cp := p.checkpoint()
	p.next()
	switch p.peek().Kind {
	case lexer.Indent:
		indent := p.next()
		if p.depth >= p.maxDepth {
			return nil, false, &DepthError{Limit: p.maxDepth, Span: indent.Span}
		}
		p.depth++
		children, err := p.parseElementList()
		p.depth--
		if err != nil {
			return nil, false, err
		}
		el.Children = children
		return el, false, nil
	case lexer.Dedent:
		p.next()
		return el, true, nil
	default:
		p.rewind(cp)
		return el, false, nil
	}
}

func (p *parser) parseHeader() (*ast.Element, error) {
	el := &ast.Element{Tag: ast.DefaultTag}
	named, hasID, hasAttrs := false, false, false

	if p.peek().Kind == lexer.Text {
		el.Tag = p.next().Text
		named = true
	}
	if p.peek().Kind == lexer.Hash {
		p.next()
		id, err := p.expect(lexer.Text)
		if err != nil {
			return nil, err
		}
		el.ID = id.Text
		hasID = true
	}
	for p.peek().Kind == lexer.Dot {
		p.next()
		class, err := p.expect(lexer.Text)
		if err != nil {
			return nil, err
		}
		el.Classes = append(el.Classes, class.Text)
	}
	if p.peek().Kind == lexer.OpenParen {
		p.next()
		if err := p.parseAttrs(el); err != nil {
			return nil, err
		}
		hasAttrs = true
	}
	if p.peek().Kind == lexer.WhiteSpace {
		p.next()
		content := p.parseContent()
		el.Content = &content
		return el, nil
	}

	switch tok := p.peek(); tok.Kind {
	case lexer.Newline, lexer.Dedent, lexer.EOF:
		return el, nil
	default:
		var follow []lexer.Kind
		if !named && !hasID && len(el.Classes) == 0 && !hasAttrs {
			follow = append(follow, lexer.Text)
		}
		if !hasID && len(el.Classes) == 0 && !hasAttrs {
			follow = append(follow, lexer.Hash)
		}
		if !hasAttrs {
			follow = append(follow, lexer.Dot, lexer.OpenParen)
		}
		follow = append(follow, lexer.WhiteSpace, lexer.Newline)
		return nil, p.unexpected(tok, kinds(follow...)...)
	}
}

func (p *parser) parseAttrs(el *ast.Element) error {
	for {
		p.skipSpaces()
		tok := p.peek()
		if tok.Kind == lexer.CloseParen {
			p.next()
			return nil
		}
		if tok.Kind != lexer.Text {
			return p.unexpected(tok, kinds(lexer.Text, lexer.CloseParen)...)
		}
		attr := ast.Attr{Key: p.next().Text, Kind: ast.AttrBool}

		if p.peek().Kind == lexer.Equals {
			p.next()
			value, err := p.parseQuoted()
			if err != nil {
				return err
			}
			attr.Kind = ast.AttrString
			attr.Value = value
		}
		el.SetAttr(attr)

		if p.peek().Kind == lexer.Comma {
			p.next()
		}
	}
}

// parseQuoted reads a quoted value. Only the opening quote character ends
// it; everything else, '=' included, is copied verbatim.
func (p *parser) parseQuoted() (string, error) {
	open, err := p.expect(lexer.Quote)
	if err != nil {
		return "", err
	}
	closing := lexer.Token{Kind: lexer.Quote, Text: open.Text}

	var b strings.Builder
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.Quote:
			if tok.Text == open.Text {
				p.next()
				return b.String(), nil
			}
		case lexer.EOF, lexer.Newline, lexer.Indent, lexer.Dedent:
			return "", p.unexpected(tok, closing)
		}
		b.WriteString(p.next().Text)
	}
}

func (p *parser) parseContent() string {
	var b strings.Builder
	for {
		switch p.peek().Kind {
		case lexer.Newline, lexer.Dedent, lexer.EOF:
			return b.String()
		}
		b.WriteString(p.next().Text)
	}
}

func (p *parser) skipSpaces() {
	for p.peek().Kind == lexer.WhiteSpace {
		p.next()
	}
}

func (p *parser) expect(k lexer.Kind) (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != k {
		return tok, p.unexpected(tok, lexer.Token{Kind: k})
	}
	return p.next(), nil
}

// unexpected builds the error for found when one of expected was needed.
// Dedents closing the document at end of input count as end of input, and
// an Error token surfaces as the lexer error it stands for.
func (p *parser) unexpected(found lexer.Token, expected ...lexer.Token) error {
	switch {
	case found.Kind == lexer.EOF, p.closesInput(found):
		return &UnexpectedEOFError{Expected: expected, Span: found.Span}
	case found.Kind == lexer.Error:
		return &lexer.LexError{Span: found.Span, Text: found.Text}
	default:
		return &ExpectedTokenError{Expected: expected, Found: found}
	}
}

func (p *parser) closesInput(tok lexer.Token) bool {
	return tok.Kind == lexer.Dedent && tok.Span == p.toks[len(p.toks)-1].Span
}

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *parser) next() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) checkpoint() int { return p.pos }
func (p *parser) rewind(pos int)  { p.pos = pos }

func kinds(ks ...lexer.Kind) []lexer.Token {
	out := make([]lexer.Token, len(ks))
	for i, k := range ks {
		out[i] = lexer.Token{Kind: k}
	}
	return out
}
