package hostdoc

import (
	"strings"

	"golang.org/x/net/html"
)

// HiddenMarker is the class this tool sets on elements it hides. The host stylesheet
// renders it as display:none.
const HiddenMarker = "menu-customizer-hidden"

func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Is reports whether n is an element with the given tag name.
func Is(n *html.Node, tag string) bool {
	return IsElement(n) && strings.EqualFold(n.Data, tag)
}

func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func ID(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	v, _ := Attr(n, "id")
	return strings.TrimSpace(v)
}

func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func AddClass(n *html.Node, class string) {
	if n == nil || HasClass(n, class) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), class), " "))
}

func RemoveClass(n *html.Node, class string) {
	if n == nil || !HasClass(n, class) {
		return
	}
	var keep []string
	for _, c := range Classes(n) {
		if c != class {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(keep, " "))
}

// ReplaceClass swaps from for to in place, keeping the class position.
func ReplaceClass(n *html.Node, from, to string) {
	if n == nil || !HasClass(n, from) {
		return
	}
	cs := Classes(n)
	for i := range cs {
		if cs[i] == from {
			cs[i] = to
		}
	}
	SetAttr(n, "class", strings.Join(cs, " "))
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first. Returning false skips a subtree.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// FindFirst returns the first descendant element of n (n excluded) matching pred.
func FindFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
		Walk(c, func(x *html.Node) bool {
			if found != nil {
				return false
			}
			if IsElement(x) && pred(x) {
				found = x
				return false
			}
			return true
		})
	}
	return found
}

// FindAll returns every descendant element of n (n excluded) matching pred, in document order.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, func(x *html.Node) bool {
			if IsElement(x) && pred(x) {
				out = append(out, x)
			}
			return true
		})
	}
	return out
}

// Closest returns n or its nearest ancestor matching pred.
func Closest(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if IsElement(p) && pred(p) {
			return p
		}
	}
	return nil
}

// Text is the whitespace-collapsed text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	Walk(n, func(x *html.Node) bool {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// SetText replaces n's content with a single text node.
func SetText(n *html.Node, s string) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// IsVisible reports whether n itself renders: no hidden attribute, no inline
// display:none, and no HiddenMarker class.
func IsVisible(n *html.Node) bool {
	if !IsElement(n) {
		return false
	}
	if _, ok := Attr(n, "hidden"); ok {
		return false
	}
	if HasClass(n, HiddenMarker) {
		return false
	}
	style, _ := Attr(n, "style")
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), "display") && strings.EqualFold(strings.TrimSpace(v), "none") {
			return false
		}
	}
	return true
}

// Index is n's position among its parent's element children, or -1 when detached.
func Index(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range Children(n.Parent) {
		if c == n {
			return i
		}
	}
	return -1
}
