// Package compile runs the whole pipeline for one source file: lex, parse,
// then either render HTML or generate a Go file of gomponents calls.
package compile

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/printer"
	"go/token"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
	"github.com/Purgs-Association/Purgs/internal/purgs/config"
	"github.com/Purgs-Association/Purgs/internal/purgs/ctxlog"
	"github.com/Purgs-Association/Purgs/internal/purgs/diag"
	"github.com/Purgs-Association/Purgs/internal/purgs/gomponents"
	"github.com/Purgs-Association/Purgs/internal/purgs/lexer"
	"github.com/Purgs-Association/Purgs/internal/purgs/parser"
	"github.com/Purgs-Association/Purgs/internal/purgs/render"
)

type Options struct {
	// Emit is config.EmitHTML (the default) or config.EmitGo.
	Emit string
	// Package names the generated Go package; empty derives it from the
	// source directory.
	Package          string
	MaxDepth         int
	AllowMixedIndent bool
}

// OptionsFrom copies the compile settings out of a project config.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		Emit:             cfg.Emit,
		Package:          cfg.Package,
		MaxDepth:         cfg.MaxDepth,
		AllowMixedIndent: cfg.AllowMixedIndent,
	}
}

// Parse lexes and parses src. Positioned errors are annotated with a source
// snippet naming path.
func Parse(ctx context.Context, path string, src []byte, opts Options) (ast.Document, error) {
	logger := ctxlog.FromContext(ctx).With("file", path)
	text := string(src)

	toks, err := lexer.Lex(text, lexer.Options{AllowMixedIndent: opts.AllowMixedIndent})
	if err != nil {
		return nil, wrap(err, path, text)
	}
	logger.Debug("Lexed source.", "tokens", len(toks))

	doc, err := parser.ParseTokens(toks, parser.WithMaxDepth(opts.MaxDepth))
	if err != nil {
		return nil, wrap(err, path, text)
	}
	elements := 0
	doc.Walk(func(*ast.Element, int) bool {
		elements++
		return true
	})
	logger.Debug("Parsed document.", "roots", len(doc), "elements", elements)
	return doc, nil
}

// CompileFile compiles one source file to HTML or to a gofmt'd Go file.
func CompileFile(ctx context.Context, path string, src []byte, opts Options) ([]byte, error) {
	doc, err := Parse(ctx, path, src, opts)
	if err != nil {
		return nil, err
	}

	var out []byte
	switch opts.Emit {
	case config.EmitGo:
		out, err = GoFile(path, doc, opts.Package)
	case config.EmitHTML, "":
		var s string
		s, err = render.String(doc)
		out = []byte(s)
	default:
		err = fmt.Errorf("unknown emit %q", opts.Emit)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Generated output.", "file", path, "emit", opts.Emit, "bytes", len(out))
	return out, nil
}

// GoFile generates a Go source file declaring one func, named after path,
// that returns doc as a gomponents Node.
func GoFile(path string, doc ast.Document, pkg string) ([]byte, error) {
	res, err := gomponents.LowerDocument(doc)
	if err != nil {
		return nil, err
	}
	var expr bytes.Buffer
	if err := printer.Fprint(&expr, token.NewFileSet(), res.Expr); err != nil {
		return nil, err
	}

	if pkg == "" {
		pkg = PackageName(filepath.Dir(path))
	}
	base := filepath.Base(path)
	fn := FuncName(base)

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by purgs from %s. DO NOT EDIT.\n\n", base)
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import (\n\t. \"maragu.dev/gomponents\"\n")
	if res.UsesHTML {
		b.WriteString("\t. \"maragu.dev/gomponents/html\"\n")
	}
	b.WriteString(")\n\n")
	fmt.Fprintf(&b, "// %s renders %s.\n", fn, base)
	fmt.Fprintf(&b, "func %s() Node {\n\treturn %s\n}\n", fn, expr.String())

	return format.Source(b.Bytes())
}

// FuncName turns a file name like "blog-post.pug" into "BlogPost".
func FuncName(file string) string {
	stem, _, _ := strings.Cut(file, ".")
	var b strings.Builder
	upper := true
	for _, r := range stem {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "Page" + name
	}
	return name
}

// PackageName derives a Go package name from a directory.
func PackageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(dir)) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) && b.Len() > 0 {
			b.WriteRune(r)
		}
	}
	if name := b.String(); token.IsIdentifier(name) && !token.IsKeyword(name) {
		return name
	}
	return "views"
}

func wrap(err error, path, src string) error {
	annotated := diag.Annotate(err, path, src)
	if annotated == err {
		return fmt.Errorf("%s: %w", path, err)
	}
	return annotated
}
