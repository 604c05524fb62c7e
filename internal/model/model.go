package model

import "strings"

// PluginID keys the persisted settings object.
const PluginID = "menu-customizer"

// SettingsVersion is the current schema version of Settings.
const SettingsVersion = 1

type Scope string

const (
	ScopePrimary   Scope = "primaryMenu"
	ScopeSecondary Scope = "secondaryMenu"
)

func AllScopes() []Scope {
	return []Scope{ScopePrimary, ScopeSecondary}
}

func ParseScope(s string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primarymenu", "primary", "chat", "chatmenu":
		return ScopePrimary, true
	case "secondarymenu", "secondary", "extensions", "extensionmenu":
		return ScopeSecondary, true
	default:
		return "", false
	}
}

func (s Scope) Label() string {
	switch s {
	case ScopePrimary:
		return "Chat menu"
	case ScopeSecondary:
		return "Extensions menu"
	default:
		return string(s)
	}
}

type Item struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CustomName *string `json:"customName,omitempty"`
	Icon       string  `json:"icon,omitempty"`
	Hidden     bool    `json:"hidden"`
	CategoryID *string `json:"categoryId"`
	Order      *int    `json:"order,omitempty"`
}

// DisplayName is the label shown for the item: the override when set, otherwise the discovered name.
func (it Item) DisplayName() string {
	if it.CustomName != nil && strings.TrimSpace(*it.CustomName) != "" {
		return *it.CustomName
	}
	return it.Name
}

// HasCustomName reports whether the item carries an override that differs from its name.
func (it Item) HasCustomName() bool {
	return it.CustomName != nil && *it.CustomName != "" && *it.CustomName != it.Name
}

func (it Item) InCategory(categoryID *string) bool {
	if categoryID == nil {
		return it.CategoryID == nil || *it.CategoryID == ""
	}
	return it.CategoryID != nil && *it.CategoryID == *categoryID
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    *int   `json:"order,omitempty"`
	Expanded *bool  `json:"expanded,omitempty"`
}

// IsExpanded defaults to true when the flag was never set.
func (c Category) IsExpanded() bool {
	return c.Expanded == nil || *c.Expanded
}

type ScopeState struct {
	Items      []Item     `json:"items"`
	Categories []Category `json:"categories"`
}

func (st *ScopeState) FindItem(id string) (*Item, bool) {
	if st == nil {
		return nil, false
	}
	for i := range st.Items {
		if st.Items[i].ID == id {
			return &st.Items[i], true
		}
	}
	return nil, false
}

func (st *ScopeState) FindCategory(id string) (*Category, bool) {
	if st == nil {
		return nil, false
	}
	for i := range st.Categories {
		if st.Categories[i].ID == id {
			return &st.Categories[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy; callers outside the session get snapshots, never the live state.
func (st ScopeState) Clone() ScopeState {
	out := ScopeState{
		Items:      make([]Item, 0, len(st.Items)),
		Categories: make([]Category, 0, len(st.Categories)),
	}
	for _, it := range st.Items {
		it.CustomName = cloneString(it.CustomName)
		it.CategoryID = cloneString(it.CategoryID)
		it.Order = cloneInt(it.Order)
		out.Items = append(out.Items, it)
	}
	for _, c := range st.Categories {
		c.Order = cloneInt(c.Order)
		if c.Expanded != nil {
			v := *c.Expanded
			c.Expanded = &v
		}
		out.Categories = append(out.Categories, c)
	}
	return out
}

type Settings struct {
	Version       int        `json:"version"`
	PrimaryMenu   ScopeState `json:"primaryMenu"`
	SecondaryMenu ScopeState `json:"secondaryMenu"`
}

func (s *Settings) Scope(scope Scope) *ScopeState {
	if s == nil {
		return nil
	}
	switch scope {
	case ScopePrimary:
		return &s.PrimaryMenu
	case ScopeSecondary:
		return &s.SecondaryMenu
	default:
		return nil
	}
}

// DiscoveredItem is one entry reported by a discovery scan.
type DiscoveredItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Icon            string `json:"icon,omitempty"`
	DiscoveredOrder int    `json:"discoveredOrder"`
}

func StrPtr(s string) *string { return &s }

func IntPtr(n int) *int { return &n }

func BoolPtr(b bool) *bool { return &b }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
