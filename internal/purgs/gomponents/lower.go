// Package gomponents lowers parsed documents to Go expressions built from
// gomponents calls, for code generation.
package gomponents

import (
	"fmt"
	goast "go/ast"
	gotoken "go/token"
	"strings"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
	"github.com/Purgs-Association/Purgs/internal/purgs/render"
)

// Result is a lowered document. UsesHTML reports whether Expr calls into
// maragu.dev/gomponents/html, so callers know whether to import it.
type Result struct {
	Expr     goast.Expr
	UsesHTML bool
}

type lowerer struct {
	usesHTML bool
}

// LowerDocument lowers doc to a single Go expression that evaluates to Node.
// The expression assumes dot imports of gomponents and gomponents/html.
func LowerDocument(doc ast.Document) (Result, error) {
	var l lowerer
	if len(doc) == 0 {
		return Result{Expr: goast.NewIdent("nil")}, nil
	}
	if len(doc) == 1 {
		ex, err := l.lowerElement(doc[0])
		if err != nil {
			return Result{}, err
		}
		return Result{Expr: ex, UsesHTML: l.usesHTML}, nil
	}
	var elts []goast.Expr
	for _, el := range doc {
		ex, err := l.lowerElement(el)
		if err != nil {
			return Result{}, err
		}
		elts = append(elts, ex)
	}
	return Result{
		Expr: &goast.CompositeLit{
			Type: goast.NewIdent("Group"),
			Elts: elts,
		},
		UsesHTML: l.usesHTML,
	}, nil
}

func (l *lowerer) lowerElement(el *ast.Element) (goast.Expr, error) {
	if err := render.CheckVoid(el); err != nil {
		return nil, err
	}

	var args []goast.Expr

	// attrs first, then id and class
	for _, a := range el.Attrs {
		ax, err := l.lowerAttr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, ax)
	}
	if el.ID != "" {
		args = append(args, l.htmlCall("ID", strLit(el.ID)))
	}
	if len(el.Classes) > 0 {
		args = append(args, l.htmlCall("Class", strLit(strings.Join(el.Classes, " "))))
	}
	if el.Content != nil && *el.Content != "" {
		args = append(args, call(goast.NewIdent("Raw"), strLit(*el.Content)))
	}
	// then children
	for _, c := range el.Children {
		cx, err := l.lowerElement(c)
		if err != nil {
			return nil, err
		}
		args = append(args, cx)
	}

	if fn := htmlElementFunc(el.Tag); fn != "" {
		return l.htmlCall(fn, args...), nil
	}
	allArgs := append([]goast.Expr{strLit(el.Tag)}, args...)
	return call(goast.NewIdent("El"), allArgs...), nil
}

func (l *lowerer) lowerAttr(a ast.Attr) (goast.Expr, error) {
	switch a.Kind {
	case ast.AttrBool:
		if fn := htmlBoolAttrFunc(a.Key); fn != "" {
			return l.htmlCall(fn), nil
		}
		return call(goast.NewIdent("Attr"), strLit(a.Key)), nil
	case ast.AttrString:
		if fn := htmlStringAttrFunc(a.Key); fn != "" {
			return l.htmlCall(fn, strLit(a.Value)), nil
		}
		return call(goast.NewIdent("Attr"), strLit(a.Key), strLit(a.Value)), nil
	default:
		return nil, fmt.Errorf("unknown attr kind %v", a.Kind)
	}
}

func (l *lowerer) htmlCall(fn string, args ...goast.Expr) *goast.CallExpr {
	l.usesHTML = true
	return call(goast.NewIdent(fn), args...)
}

func call(fun goast.Expr, args ...goast.Expr) *goast.CallExpr {
	return &goast.CallExpr{Fun: fun, Args: args}
}

func strLit(s string) goast.Expr {
	return &goast.BasicLit{Kind: gotoken.STRING, Value: fmt.Sprintf("%q", s)}
}

func htmlElementFunc(tag string) string {
	switch tag {
	case "a":
		return "A"
	case "body":
		return "Body"
	case "br":
		return "Br"
	case "button":
		return "Button"
	case "code":
		return "Code"
	case "div":
		return "Div"
	case "em":
		return "Em"
	case "footer":
		return "Footer"
	case "form":
		return "Form"
	case "h1":
		return "H1"
	case "h2":
		return "H2"
	case "h3":
		return "H3"
	case "h4":
		return "H4"
	case "h5":
		return "H5"
	case "h6":
		return "H6"
	case "head":
		return "Head"
	case "header":
		return "Header"
	case "hr":
		return "Hr"
	case "html":
		return "HTML"
	case "img":
		return "Img"
	case "input":
		return "Input"
	case "label":
		return "Label"
	case "li":
		return "Li"
	case "link":
		return "Link"
	case "main":
		return "Main"
	case "meta":
		return "Meta"
	case "nav":
		return "Nav"
	case "ol":
		return "Ol"
	case "p":
		return "P"
	case "pre":
		return "Pre"
	case "script":
		return "Script"
	case "section":
		return "Section"
	case "span":
		return "Span"
	case "strong":
		return "Strong"
	case "table":
		return "Table"
	case "td":
		return "Td"
	case "th":
		return "Th"
	case "title":
		return "TitleEl"
	case "tr":
		return "Tr"
	case "ul":
		return "Ul"
	default:
		return ""
	}
}

func htmlStringAttrFunc(key string) string {
	switch key {
	case "alt":
		return "Alt"
	case "charset":
		return "Charset"
	case "class":
		return "Class"
	case "content":
		return "Content"
	case "href":
		return "Href"
	case "id":
		return "ID"
	case "name":
		return "Name"
	case "placeholder":
		return "Placeholder"
	case "rel":
		return "Rel"
	case "src":
		return "Src"
	case "style":
		return "Style"
	case "type":
		return "Type"
	case "value":
		return "Value"
	default:
		return ""
	}
}

func htmlBoolAttrFunc(key string) string {
	switch key {
	case "checked":
		return "Checked"
	case "disabled":
		return "Disabled"
	case "required":
		return "Required"
	case "selected":
		return "Selected"
	default:
		return ""
	}
}
