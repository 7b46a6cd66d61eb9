package gomponents

import (
	"bytes"
	"errors"
	"go/printer"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Purgs-Association/Purgs/internal/purgs/parser"
	"github.com/Purgs-Association/Purgs/internal/purgs/render"
)

func lowerSource(t *testing.T, src string) (string, bool) {
	t.Helper()
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	res, err := LowerDocument(doc)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, token.NewFileSet(), res.Expr))
	return buf.String(), res.UsesHTML
}

func TestLowerDocument(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		want     string
		usesHTML bool
	}{
		{
			name: "empty",
			src:  "",
			want: `nil`,
		},
		{
			name:     "id class and content",
			src:      "div#content.hello.big Hello World",
			want:     `Div(ID("content"), Class("hello big"), Raw("Hello World"))`,
			usesHTML: true,
		},
		{
			name:     "known and generic attributes",
			src:      `meta(width="device-width=true", charset="utf-8")`,
			want:     `Meta(Attr("width", "device-width=true"), Charset("utf-8"))`,
			usesHTML: true,
		},
		{
			name:     "boolean attributes",
			src:      `input(disabled, autofocus)`,
			want:     `Input(Disabled(), Attr("autofocus"))`,
			usesHTML: true,
		},
		{
			name: "unknown tags use El",
			src:  "my-widget Hi",
			want: `El("my-widget", Raw("Hi"))`,
		},
		{
			name:     "nesting",
			src:      "ul\n\tli one\n\tli two",
			want:     `Ul(Li(Raw("one")), Li(Raw("two")))`,
			usesHTML: true,
		},
		{
			name: "several roots",
			src:  "x-a\nx-b",
			want: `Group{El("x-a"), El("x-b")}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, usesHTML := lowerSource(t, tc.src)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.usesHTML, usesHTML)
		})
	}
}

func TestLowerRejectsVoidChildren(t *testing.T) {
	doc, err := parser.Parse("br\n\tspan")
	require.NoError(t, err)
	_, err = LowerDocument(doc)
	var voidErr *render.VoidElementError
	require.True(t, errors.As(err, &voidErr), "got %v", err)
}
