package drag

import (
	"errors"
	"fmt"

	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
)

var ErrNotInList = errors.New("not in list")

// Placement is an item's position after a drop.
type Placement struct {
	ID         string  `json:"id"`
	Order      int     `json:"order"`
	CategoryID *string `json:"categoryId"`
}

type CategoryOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Plan is the model change a drop commits: every item and category of the scope with
// its new order.
type Plan struct {
	Scope      model.Scope     `json:"scope"`
	Items      []Placement     `json:"items"`
	Categories []CategoryOrder `json:"categories"`
}

func (p Plan) Empty() bool { return len(p.Items) == 0 && len(p.Categories) == 0 }

// Plan walks the list top to bottom numbering items from 0 across categories and the
// root list, and categories from 0 among themselves.
func (l *List) Plan() Plan {
	p := Plan{Scope: l.Scope}
	next, nextCat := 0, 0
	for _, n := range l.Root.Nodes {
		switch n.Kind {
		case KindCategory:
			p.Categories = append(p.Categories, CategoryOrder{ID: n.ID, Order: nextCat})
			nextCat++
			cid := n.ID
			for _, m := range n.Content.Nodes {
				if m.Kind != KindItem {
					continue
				}
				p.Items = append(p.Items, Placement{ID: m.ID, Order: next, CategoryID: model.StrPtr(cid)})
				next++
			}
		case KindItem:
			p.Items = append(p.Items, Placement{ID: n.ID, Order: next})
			next++
		}
	}
	return p
}

// ApplyPlan writes a plan onto the scope and re-sorts the stored lists by the new order.
// Ids the scope no longer has are ignored.
func ApplyPlan(st *model.ScopeState, p Plan) {
	if st == nil {
		return
	}
	for _, pl := range p.Items {
		it, ok := st.FindItem(pl.ID)
		if !ok {
			continue
		}
		it.Order = model.IntPtr(pl.Order)
		if pl.CategoryID == nil {
			it.CategoryID = nil
		} else {
			it.CategoryID = model.StrPtr(*pl.CategoryID)
		}
	}
	for _, co := range p.Categories {
		if c, ok := st.FindCategory(co.ID); ok {
			c.Order = model.IntPtr(co.Order)
		}
	}
	items := order.SortedItems(st)
	cats := order.SortedCategories(st)
	st.Items = items
	st.Categories = cats
}

// MoveItem relocates an item without a pointer: into categoryID ("" for the root list),
// before the index-th item there. An index past the end appends.
func (l *List) MoveItem(itemID, categoryID string, index int) error {
	n, from := l.Find(KindItem, itemID)
	if n == nil {
		return fmt.Errorf("%w: item %s", ErrNotInList, itemID)
	}
	to := l.Root
	if categoryID != "" {
		c, _ := l.Find(KindCategory, categoryID)
		if c == nil {
			return fmt.Errorf("%w: category %s", ErrNotInList, categoryID)
		}
		to = c.Content
	}
	from.remove(n)
	to.insert(slot(to, KindItem, index), n)
	return nil
}

// MoveCategory puts a category before the index-th category.
func (l *List) MoveCategory(categoryID string, index int) error {
	n, _ := l.Find(KindCategory, categoryID)
	if n == nil {
		return fmt.Errorf("%w: category %s", ErrNotInList, categoryID)
	}
	l.Root.remove(n)
	l.Root.insert(slot(l.Root, KindCategory, index), n)
	return nil
}

// slot is the container position in front of the index-th node of kind. Categories
// never go below the root items.
func slot(c *Container, kind Kind, index int) int {
	seen, last := 0, -1
	for i, x := range c.Nodes {
		if x.Kind != kind {
			continue
		}
		if seen == index {
			return i
		}
		seen++
		last = i
	}
	if kind == KindCategory {
		return last + 1
	}
	return len(c.Nodes)
}
