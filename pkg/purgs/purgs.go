// Package purgs compiles purgs markup, an indentation-based HTML shorthand,
// to HTML or to Go source built from gomponents calls.
package purgs

import (
	"context"
	"io"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
	"github.com/Purgs-Association/Purgs/internal/purgs/compile"
	"github.com/Purgs-Association/Purgs/internal/purgs/config"
	"github.com/Purgs-Association/Purgs/internal/purgs/parser"
	"github.com/Purgs-Association/Purgs/internal/purgs/render"
)

type (
	Document = ast.Document
	Element  = ast.Element
	Attr     = ast.Attr
)

// Parse parses src into a document with the default depth limit.
func Parse(src string) (Document, error) {
	return parser.Parse(src)
}

// Render writes the HTML for src to w. Nothing is written when src fails to
// parse or breaks a void element rule.
func Render(w io.Writer, src string) error {
	doc, err := parser.Parse(src)
	if err != nil {
		return err
	}
	return render.Render(w, doc)
}

// String returns the HTML for src.
func String(src string) (string, error) {
	doc, err := parser.Parse(src)
	if err != nil {
		return "", err
	}
	return render.String(doc)
}

// CompileFile compiles a .pug source to a gofmt'd Go file declaring one func
// that returns the page as a gomponents Node.
//
// The result is suitable for writing to "<path>.go" (i.e. "*.pug.go") and checking in.
func CompileFile(path string, src []byte) ([]byte, error) {
	opts := compile.OptionsFrom(config.Default())
	opts.Emit = config.EmitGo
	return compile.CompileFile(context.Background(), path, src, opts)
}
