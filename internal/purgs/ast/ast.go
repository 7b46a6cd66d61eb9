package ast

// DefaultTag is the element name used when a line starts with #id, .class,
// an attribute list or content.
const DefaultTag = "div"

type AttrKind int

const (
	AttrBool AttrKind = iota
	AttrString
)

type Attr struct {
	Key  string
	Kind AttrKind
	// Value is the literal string; empty for AttrBool.
	Value string
}

// Element is one line of source together with the lines nested under it.
type Element struct {
	Tag string
	// Attrs keeps declaration order. Keys are unique, see SetAttr.
	Attrs   []Attr
	ID      string
	Classes []string
	// Content is the raw text after the header; nil when the line has none.
	Content  *string
	Children []*Element
}

// SetAttr records an attribute. A key that is already present keeps its
// position and takes the new value.
func (e *Element) SetAttr(a Attr) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == a.Key {
			e.Attrs[i] = a
			return
		}
	}
	e.Attrs = append(e.Attrs, a)
}

// Attr looks up an attribute by key.
func (e *Element) Attr(key string) (Attr, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attr{}, false
}

// Document is the ordered list of top-level elements.
type Document []*Element

// Walk calls fn for every element in depth-first pre-order, passing the
// nesting depth (0 for top-level elements). Returning false skips the
// element's children.
func (d Document) Walk(fn func(el *Element, depth int) bool) {
	var walk func(els []*Element, depth int)
	walk = func(els []*Element, depth int) {
		for _, el := range els {
			if fn(el, depth) {
				walk(el.Children, depth+1)
			}
		}
	}
	walk(d, 0)
}
