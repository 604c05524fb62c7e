package cli

import (
	"fmt"
	"strings"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
)

type itemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	CustomName  *string `json:"customName,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Hidden      bool    `json:"hidden"`
	CategoryID  *string `json:"categoryId"`
	Order       *int    `json:"order,omitempty"`
}

type categoryView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Order    *int     `json:"order,omitempty"`
	Expanded bool     `json:"expanded"`
	Items    []string `json:"items"`
}

type scopeView struct {
	Scope      model.Scope    `json:"scope"`
	Label      string         `json:"label"`
	Categories []categoryView `json:"categories"`
	Items      []itemView     `json:"items"`
}

func newItemView(st *model.ScopeState, it model.Item) itemView {
	return itemView{
		ID:          it.ID,
		Name:        it.Name,
		DisplayName: it.DisplayName(),
		CustomName:  it.CustomName,
		Icon:        it.Icon,
		Hidden:      it.Hidden,
		CategoryID:  order.EffectiveCategory(st, it),
		Order:       it.Order,
	}
}

func newCategoryView(st *model.ScopeState, c model.Category) categoryView {
	cid := c.ID
	v := categoryView{ID: c.ID, Name: c.Name, Order: c.Order, Expanded: c.IsExpanded(), Items: []string{}}
	for _, it := range order.ItemsIn(st, &cid) {
		v.Items = append(v.Items, it.ID)
	}
	return v
}

func newScopeView(scope model.Scope, st model.ScopeState) scopeView {
	v := scopeView{Scope: scope, Label: scope.Label(), Categories: []categoryView{}, Items: []itemView{}}
	for _, c := range order.SortedCategories(&st) {
		v.Categories = append(v.Categories, newCategoryView(&st, c))
	}
	for _, it := range order.SortedItems(&st) {
		v.Items = append(v.Items, newItemView(&st, it))
	}
	return v
}

// resolveCategory finds a category by id, then by case-insensitive name.
func resolveCategory(st model.ScopeState, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)
	if c, ok := st.FindCategory(ref); ok {
		return *c, nil
	}
	var hits []model.Category
	for _, c := range st.Categories {
		if strings.EqualFold(c.Name, ref) {
			hits = append(hits, c)
		}
	}
	switch len(hits) {
	case 0:
		return model.Category{}, customize.NotFoundError{Kind: "category", ID: ref}
	case 1:
		return hits[0], nil
	default:
		return model.Category{}, fmt.Errorf("category name %q is ambiguous (%d matches); use the id", ref, len(hits))
	}
}
