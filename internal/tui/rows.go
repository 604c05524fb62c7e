package tui

import (
	"fmt"
	"strings"

	"menu-customizer/internal/drag"
	"menu-customizer/internal/model"
)

// row is one rendered line of the editor list.
type row struct {
	node   *drag.Node
	parent *drag.Container
	depth  int
}

// flatten lists the nodes in display order with their container. Members of collapsed
// categories are skipped; the drop placeholder is listed where it sits.
func flatten(l *drag.List) []row {
	if l == nil {
		return nil
	}
	var out []row
	for _, n := range l.Root.Nodes {
		out = append(out, row{node: n, parent: l.Root})
		if n.Kind == drag.KindCategory && !n.Collapsed {
			for _, m := range n.Content.Nodes {
				out = append(out, row{node: m, parent: n.Content, depth: 1})
			}
		}
	}
	return out
}

func rowKey(n *drag.Node) string {
	switch n.Kind {
	case drag.KindItem:
		return "item:" + n.ID
	case drag.KindCategory:
		return "category:" + n.ID
	default:
		return ""
	}
}

// position is the node's index among the same kind in its container.
func (r row) position() int {
	i := 0
	for _, x := range r.parent.Nodes {
		if x == r.node {
			return i
		}
		if x.Kind == r.node.Kind {
			i++
		}
	}
	return -1
}

func (r row) count(kind drag.Kind) int {
	n := 0
	for _, x := range r.parent.Nodes {
		if x.Kind == kind {
			n++
		}
	}
	return n
}

func memberCount(n *drag.Node) int {
	if n.Content == nil {
		return 0
	}
	c := 0
	for _, m := range n.Content.Nodes {
		if m.Kind == drag.KindItem {
			c++
		}
	}
	return c
}

// rowText is the unstyled label for a row.
func rowText(st *model.ScopeState, r row) string {
	indent := strings.Repeat("  ", r.depth)
	switch r.node.Kind {
	case drag.KindCategory:
		name := r.node.ID
		if c, ok := st.FindCategory(r.node.ID); ok {
			name = c.Name
		}
		arrow := "▾"
		if r.node.Collapsed {
			arrow = "▸"
		}
		return fmt.Sprintf("%s%s %s (%d)", indent, arrow, name, memberCount(r.node))
	case drag.KindItem:
		it, ok := st.FindItem(r.node.ID)
		if !ok {
			return indent + "[?] " + r.node.ID
		}
		box := "[x]"
		if it.Hidden {
			box = "[ ]"
		}
		label := box + " " + it.DisplayName()
		if it.HasCustomName() {
			label += " (" + it.Name + ")"
		}
		return indent + label
	default:
		return indent + "┈┈┈┈┈┈ drop here"
	}
}
