// Package render serializes parsed documents to HTML through gomponents.
package render

import (
	"fmt"
	"io"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
)

// voidElements are the elements HTML forbids content in.
var voidElements = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	_, ok := voidElements[tag]
	return ok
}

// VoidElementError reports a void element that was given children or text.
type VoidElementError struct {
	Tag      string
	Children int
	Content  string
}

func (e *VoidElementError) Error() string {
	if e.Children > 0 {
		return fmt.Sprintf("void element <%s> cannot have children (has %d)", e.Tag, e.Children)
	}
	return fmt.Sprintf("void element <%s> cannot have content %q", e.Tag, e.Content)
}

// CheckVoid returns a *VoidElementError when el is a void element carrying
// children or non-empty content.
func CheckVoid(el *ast.Element) error {
	if !IsVoid(el.Tag) {
		return nil
	}
	if len(el.Children) > 0 {
		return &VoidElementError{Tag: el.Tag, Children: len(el.Children)}
	}
	if el.Content != nil && *el.Content != "" {
		return &VoidElementError{Tag: el.Tag, Content: *el.Content}
	}
	return nil
}

// Node converts el and its subtree to a gomponents node. Ordinary attributes
// come first in declaration order, followed by id and class.
func Node(el *ast.Element) (g.Node, error) {
	if err := CheckVoid(el); err != nil {
		return nil, err
	}

	nodes := make([]g.Node, 0, len(el.Attrs)+len(el.Children)+3)
	for _, a := range el.Attrs {
		if a.Kind == ast.AttrBool {
			nodes = append(nodes, g.Attr(a.Key))
		} else {
			nodes = append(nodes, g.Attr(a.Key, a.Value))
		}
	}
	if el.ID != "" {
		nodes = append(nodes, h.ID(el.ID))
	}
	if len(el.Classes) > 0 {
		nodes = append(nodes, h.Class(strings.Join(el.Classes, " ")))
	}
	if el.Content != nil && *el.Content != "" {
		nodes = append(nodes, g.Raw(*el.Content))
	}
	for _, child := range el.Children {
		n, err := Node(child)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return g.El(el.Tag, nodes...), nil
}

// Group converts every top-level element of doc.
func Group(doc ast.Document) (g.Group, error) {
	group := make(g.Group, 0, len(doc))
	for _, el := range doc {
		n, err := Node(el)
		if err != nil {
			return nil, err
		}
		group = append(group, n)
	}
	return group, nil
}

// Render writes doc as HTML. Nothing is written when the document breaks
// the void element rule.
func Render(w io.Writer, doc ast.Document) error {
	group, err := Group(doc)
	if err != nil {
		return err
	}
	return group.Render(w)
}

// String renders doc to a string.
func String(doc ast.Document) (string, error) {
	var b strings.Builder
	if err := Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}
