package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element. Arguments can be nil, Attr, []Attr, *VNode,
// []*VNode, Component or string (a text child).
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}
	var children []any
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			if v.Key != "" {
				node.Props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					node.Props[a.Key] = a.Value
				}
			}
		default:
			children = append(children, arg)
		}
	}
	appendChildren(node, children)
	return node
}

func appendChildren(node *VNode, children []any) {
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &VNode{Kind: KindComponent, Comp: v})
		}
	}
}

func Html(args ...any) *VNode { return El("html", args...) }
func Head(args ...any) *VNode { return El("head", args...) }
func Body(args ...any) *VNode { return El("body", args...) }
func Title(args ...any) *VNode { return El("title", args...) }
func Meta(args ...any) *VNode { return El("meta", args...) }
func Div(args ...any) *VNode { return El("div", args...) }
func Span(args ...any) *VNode { return El("span", args...) }
func Ul(args ...any) *VNode { return El("ul", args...) }
func Li(args ...any) *VNode { return El("li", args...) }
func A(args ...any) *VNode { return El("a", args...) }
func Script(args ...any) *VNode { return El("script", args...) }

// Attribute helpers.

func Class(v string) Attr { return Attr{Key: "class", Value: v} }
func ID(v string) Attr { return Attr{Key: "id", Value: v} }
func Style(v string) Attr { return Attr{Key: "style", Value: v} }
func Href(v string) Attr { return Attr{Key: "href", Value: v} }
func Lang(v string) Attr { return Attr{Key: "lang", Value: v} }
func Charset(v string) Attr { return Attr{Key: "charset", Value: v} }
func Data(key, v string) Attr {
	return Attr{Key: "data-" + key, Value: v}
}
