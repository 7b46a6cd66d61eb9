package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
	"github.com/Purgs-Association/Purgs/internal/purgs/parser"
)

func mustParse(t *testing.T, src string) ast.Document {
	t.Helper()
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	return doc
}

func TestStringSampleDocument(t *testing.T) {
	doc := mustParse(t, "html\n\thead\n\t\tmeta(width=\"device-width=true\")\n\tbody\n\t\tdiv#content.hello Hello World\nanotertoplevelthinglolhaha")

	got, err := String(doc)
	require.NoError(t, err)
	require.Equal(t,
		`<html><head><meta width="device-width=true"></head><body><div id="content" class="hello">Hello World</div></body></html>`+
			`<anotertoplevelthinglolhaha></anotertoplevelthinglolhaha>`,
		got)
}

func TestStringElements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "attributes before id and class",
			src:  `p#x.a.b(title="t") hi`,
			want: `<p title="t" id="x" class="a b">hi</p>`,
		},
		{
			name: "boolean attributes render bare",
			src:  `input(type="checkbox" checked)`,
			want: `<input type="checkbox" checked>`,
		},
		{
			name: "attribute order follows declaration",
			src:  `a(z="1", a="2", m)`,
			want: `<a z="1" a="2" m></a>`,
		},
		{
			name: "overwritten attribute keeps its slot",
			src:  `a(href="/old", rel="x", href="/new")`,
			want: `<a href="/new" rel="x"></a>`,
		},
		{
			name: "attribute values are escaped, content is raw",
			src:  `p(title="a<b") <b>bold</b> & more`,
			want: `<p title="a&lt;b"><b>bold</b> & more</p>`,
		},
		{
			name: "content precedes children",
			src:  "ul Items\n\tli one\n\tli two",
			want: `<ul>Items<li>one</li><li>two</li></ul>`,
		},
		{
			name: "void element with trailing space",
			src:  "br ",
			want: `<br>`,
		},
		{
			name: "empty classes are omitted",
			src:  "section",
			want: `<section></section>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := String(mustParse(t, tc.src))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRenderRejectsVoidElementsWithChildren(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, mustParse(t, "head\n\tmeta\n\t\tp nope"))

	var voidErr *VoidElementError
	require.True(t, errors.As(err, &voidErr), "got %v", err)
	require.Equal(t, "meta", voidErr.Tag)
	require.Equal(t, 1, voidErr.Children)
	require.Zero(t, buf.Len(), "nothing may be written on error")
}

func TestRenderRejectsVoidElementsWithContent(t *testing.T) {
	_, err := String(mustParse(t, "img text"))
	var voidErr *VoidElementError
	require.True(t, errors.As(err, &voidErr), "got %v", err)
	require.Equal(t, `void element <img> cannot have content "text"`, err.Error())
}

func TestIsVoid(t *testing.T) {
	for _, tag := range []string{"area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "param", "source", "track", "wbr"} {
		require.True(t, IsVoid(tag), tag)
	}
	for _, tag := range []string{"div", "p", "script", "template", "keygen-like"} {
		require.False(t, IsVoid(tag), tag)
	}
}

func TestStringParsesBackAsHTML(t *testing.T) {
	src := "html\n\thead\n\t\ttitle Demo\n\t\tlink(rel=\"stylesheet\", href=\"/a.css\")\n\tbody.dark\n\t\tmain#app\n\t\t\th1 Hi\n\t\t\tul\n\t\t\t\tli(data-n=\"1\") one\n\t\t\t\tli(data-n=\"2\") two"
	out, err := String(mustParse(t, src))
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var items []string
	var main *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "li":
				require.Len(t, n.Attr, 1)
				items = append(items, n.Attr[0].Val+"="+n.FirstChild.Data)
			case "main":
				main = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	require.Equal(t, []string{"1=one", "2=two"}, items)
	require.NotNil(t, main)
	require.Equal(t, []html.Attribute{{Key: "id", Val: "app"}}, main.Attr)
	require.Equal(t, "body", main.Parent.Data)
}
