package hostdoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Selectors are a small CSS subset: compound parts of the form tag#id.class[attr],
// joined by whitespace as descendant combinators. That covers every lookup the
// projector and the discovery scan make against host markup.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []string
}

func parseCompound(s string) compound {
	var c compound
	// Split into tokens starting at '#', '.' or '['.
	i := 0
	for i < len(s) && s[i] != '#' && s[i] != '.' && s[i] != '[' {
		i++
	}
	c.tag = strings.ToLower(s[:i])
	for i < len(s) {
		switch s[i] {
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				c.attrs = append(c.attrs, s[i+1:])
				return c
			}
			c.attrs = append(c.attrs, s[i+1:i+end])
			i += end + 1
		case '#', '.':
			kind := s[i]
			j := i + 1
			for j < len(s) && s[j] != '#' && s[j] != '.' && s[j] != '[' {
				j++
			}
			if kind == '#' {
				c.id = s[i+1 : j]
			} else {
				c.classes = append(c.classes, s[i+1:j])
			}
			i = j
		default:
			i++
		}
	}
	return c
}

func (c compound) match(n *html.Node) bool {
	if !IsElement(n) {
		return false
	}
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(n.Data, c.tag) {
		return false
	}
	if c.id != "" && ID(n) != c.id {
		return false
	}
	for _, cl := range c.classes {
		if !HasClass(n, cl) {
			return false
		}
	}
	for _, a := range c.attrs {
		if _, ok := Attr(n, a); !ok {
			return false
		}
	}
	return true
}

func parseSelector(sel string) []compound {
	var out []compound
	for _, part := range strings.Fields(sel) {
		out = append(out, parseCompound(part))
	}
	return out
}

// Matches reports whether n satisfies sel, checking ancestors for descendant parts.
func Matches(n *html.Node, sel string) bool {
	parts := parseSelector(sel)
	if len(parts) == 0 {
		return false
	}
	return matchChain(n, parts)
}

func matchChain(n *html.Node, parts []compound) bool {
	last := len(parts) - 1
	if !parts[last].match(n) {
		return false
	}
	if last == 0 {
		return true
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if matchChain(p, parts[:last]) {
			return true
		}
	}
	return false
}

// Query returns the first descendant of n matching sel.
func Query(n *html.Node, sel string) *html.Node {
	parts := parseSelector(sel)
	if len(parts) == 0 {
		return nil
	}
	return FindFirst(n, func(x *html.Node) bool { return matchWithin(x, n, parts) })
}

// QueryAll returns every descendant of n matching sel, in document order.
func QueryAll(n *html.Node, sel string) []*html.Node {
	parts := parseSelector(sel)
	if len(parts) == 0 {
		return nil
	}
	return FindAll(n, func(x *html.Node) bool { return matchWithin(x, n, parts) })
}

// matchWithin is matchChain restricted to ancestors strictly below scope.
func matchWithin(n, scope *html.Node, parts []compound) bool {
	last := len(parts) - 1
	if !parts[last].match(n) {
		return false
	}
	if last == 0 {
		return true
	}
	for p := n.Parent; p != nil && p != scope; p = p.Parent {
		if matchWithin(p, scope, parts[:last]) {
			return true
		}
	}
	return false
}

// Query runs sel against the whole document.
func (d *Document) Query(sel string) *html.Node {
	parts := parseSelector(sel)
	// A leading #id part is resolved through the id cache.
	if len(parts) > 0 && parts[0].id != "" && parts[0].tag == "" && len(parts[0].classes) == 0 && len(parts[0].attrs) == 0 {
		start := d.ByID(parts[0].id)
		if start == nil {
			return nil
		}
		if len(parts) == 1 {
			return start
		}
		return FindFirst(start, func(x *html.Node) bool { return matchWithin(x, start, parts[1:]) })
	}
	return Query(d.root, sel)
}

func (d *Document) QueryAll(sel string) []*html.Node {
	return QueryAll(d.root, sel)
}
