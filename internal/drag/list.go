package drag

import (
	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
)

// Box is a vertical extent in content coordinates. Bottom is exclusive.
type Box struct {
	Top    float64
	Bottom float64
}

func (b Box) Contains(y float64) bool { return b.Bottom > b.Top && y >= b.Top && y < b.Bottom }
func (b Box) Mid() float64            { return b.Top + (b.Bottom-b.Top)/2 }

type Kind int

const (
	KindItem Kind = iota
	KindCategory
	KindPlaceholder
)

// Node is one row of the editor list: an item, a category (header plus content), or the
// drop placeholder.
type Node struct {
	Kind Kind
	ID   string
	// Box is the item row or the category header.
	Box Box
	// Content holds a category's members.
	Content *Container
	// Collapsed categories keep their members in the list but give them no geometry.
	Collapsed bool
}

// Extent is the full vertical span of the node, including a category's content.
func (n *Node) Extent() Box {
	if n.Kind == KindCategory && n.Content != nil && n.Content.Box.Bottom > n.Box.Bottom {
		return Box{Top: n.Box.Top, Bottom: n.Content.Box.Bottom}
	}
	return n.Box
}

// Container is the root list or a category's content region.
type Container struct {
	// CategoryID is empty for the root list.
	CategoryID string
	Box        Box
	Nodes      []*Node
}

func (c *Container) index(n *Node) int {
	for i, x := range c.Nodes {
		if x == n {
			return i
		}
	}
	return -1
}

func (c *Container) remove(n *Node) {
	if i := c.index(n); i >= 0 {
		c.Nodes = append(c.Nodes[:i], c.Nodes[i+1:]...)
	}
}

func (c *Container) insert(at int, n *Node) {
	if at < 0 || at > len(c.Nodes) {
		at = len(c.Nodes)
	}
	c.Nodes = append(c.Nodes, nil)
	copy(c.Nodes[at+1:], c.Nodes[at:])
	c.Nodes[at] = n
}

// List is the editor's rendering of one scope: categories first, then uncategorized items.
type List struct {
	Scope model.Scope
	Root  *Container
}

// BuildList renders a scope's model in editor order. Every item appears exactly once;
// an item whose category no longer resolves is listed as uncategorized.
func BuildList(scope model.Scope, st *model.ScopeState) *List {
	root := &Container{}
	for _, c := range order.SortedCategories(st) {
		cid := c.ID
		content := &Container{CategoryID: c.ID}
		for _, it := range order.ItemsIn(st, &cid) {
			content.Nodes = append(content.Nodes, &Node{Kind: KindItem, ID: it.ID})
		}
		root.Nodes = append(root.Nodes, &Node{Kind: KindCategory, ID: c.ID, Content: content, Collapsed: !c.IsExpanded()})
	}
	for _, it := range order.ItemsIn(st, nil) {
		root.Nodes = append(root.Nodes, &Node{Kind: KindItem, ID: it.ID})
	}
	return &List{Scope: scope, Root: root}
}

// Layout assigns fixed-height rows top to bottom: each category header, its members
// unless collapsed, then the root items.
func (l *List) Layout(rowHeight float64) {
	y := 0.0
	row := func() Box {
		b := Box{Top: y, Bottom: y + rowHeight}
		y += rowHeight
		return b
	}
	for _, n := range l.Root.Nodes {
		switch n.Kind {
		case KindCategory:
			n.Box = row()
			start := y
			for _, m := range n.Content.Nodes {
				if n.Collapsed || m.Kind == KindPlaceholder {
					m.Box = Box{Top: y, Bottom: y}
					continue
				}
				m.Box = row()
			}
			n.Content.Box = Box{Top: start, Bottom: y}
		case KindItem:
			n.Box = row()
		default:
			n.Box = Box{Top: y, Bottom: y}
		}
	}
	l.Root.Box = Box{Top: 0, Bottom: y}
}

// Rows lists the nodes in display order, skipping the members of collapsed categories.
func (l *List) Rows() []*Node {
	var out []*Node
	for _, n := range l.Root.Nodes {
		out = append(out, n)
		if n.Kind == KindCategory && !n.Collapsed {
			out = append(out, n.Content.Nodes...)
		}
	}
	return out
}

// Find returns the node for an item or category id and the container holding it.
func (l *List) Find(kind Kind, id string) (*Node, *Container) {
	for _, n := range l.Root.Nodes {
		if n.Kind == kind && n.ID == id {
			return n, l.Root
		}
		if n.Kind == KindCategory {
			for _, m := range n.Content.Nodes {
				if m.Kind == kind && m.ID == id {
					return m, n.Content
				}
			}
		}
	}
	return nil, nil
}

func (l *List) containerOf(target *Node) *Container {
	if l.Root.index(target) >= 0 {
		return l.Root
	}
	for _, n := range l.Root.Nodes {
		if n.Kind == KindCategory && n.Content.index(target) >= 0 {
			return n.Content
		}
	}
	return nil
}
