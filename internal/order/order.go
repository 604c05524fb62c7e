package order

import (
	"fmt"
	"sort"

	"menu-customizer/internal/model"
)

// Sentinel is the effective order of an item or category whose order was never set.
const Sentinel = 999

func itemOrder(it model.Item) int {
	if it.Order == nil {
		return Sentinel
	}
	return *it.Order
}

func categoryOrder(c model.Category) int {
	if c.Order == nil {
		return Sentinel
	}
	return *c.Order
}

// SortedItems returns the scope's items ordered by order ascending.
// Ties keep their relative position from the stored list.
func SortedItems(st *model.ScopeState) []model.Item {
	if st == nil {
		return nil
	}
	out := append([]model.Item{}, st.Items...)
	sort.SliceStable(out, func(i, j int) bool {
		return itemOrder(out[i]) < itemOrder(out[j])
	})
	return out
}

// SortedCategories is SortedItems for categories.
func SortedCategories(st *model.ScopeState) []model.Category {
	if st == nil {
		return nil
	}
	out := append([]model.Category{}, st.Categories...)
	sort.SliceStable(out, func(i, j int) bool {
		return categoryOrder(out[i]) < categoryOrder(out[j])
	})
	return out
}

// ItemsIn filters SortedItems by category. A nil categoryID selects uncategorized items,
// including items whose category no longer resolves.
func ItemsIn(st *model.ScopeState, categoryID *string) []model.Item {
	var out []model.Item
	for _, it := range SortedItems(st) {
		eff := EffectiveCategory(st, it)
		if categoryID == nil {
			if eff == nil {
				out = append(out, it)
			}
			continue
		}
		if eff != nil && *eff == *categoryID {
			out = append(out, it)
		}
	}
	return out
}

// EffectiveCategory resolves an item's category reference; an id that does not name an
// existing category in the scope reads as uncategorized.
func EffectiveCategory(st *model.ScopeState, it model.Item) *string {
	if it.CategoryID == nil || *it.CategoryID == "" {
		return nil
	}
	if _, ok := st.FindCategory(*it.CategoryID); !ok {
		return nil
	}
	return it.CategoryID
}

// Contiguous reports whether the scope's item orders, sorted, are exactly 0..N-1.
func Contiguous(st *model.ScopeState) bool {
	if st == nil {
		return true
	}
	seen := make([]bool, len(st.Items))
	for _, it := range st.Items {
		if it.Order == nil {
			return false
		}
		o := *it.Order
		if o < 0 || o >= len(seen) || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

type Violation struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.ID)
}

// Validate reports broken structural invariants. An empty result means the scope is sound.
func Validate(st *model.ScopeState) []Violation {
	if st == nil {
		return nil
	}
	var out []Violation
	items := map[string]bool{}
	for _, it := range st.Items {
		if it.ID == "" {
			out = append(out, Violation{Kind: "item-missing-id", ID: it.Name})
			continue
		}
		if items[it.ID] {
			out = append(out, Violation{Kind: "duplicate-item", ID: it.ID})
		}
		items[it.ID] = true
	}
	cats := map[string]bool{}
	for _, c := range st.Categories {
		if cats[c.ID] {
			out = append(out, Violation{Kind: "duplicate-category", ID: c.ID})
		}
		cats[c.ID] = true
	}
	for _, it := range st.Items {
		if it.CategoryID != nil && *it.CategoryID != "" && !cats[*it.CategoryID] {
			out = append(out, Violation{Kind: "dangling-category", ID: it.ID})
		}
	}
	return out
}

// NextItemOrder is an order value that places a new item after every existing one.
func NextItemOrder(st *model.ScopeState) int {
	next := len(st.Items)
	for _, it := range st.Items {
		if o := itemOrder(it); o >= next {
			next = o + 1
		}
	}
	return next
}
