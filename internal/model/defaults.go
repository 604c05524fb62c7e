package model

// DefaultPrimaryItems is the built-in seed for the chat options menu.
// DiscoveredOrder holds the item's original position in the host menu.
var DefaultPrimaryItems = []DiscoveredItem{
	{ID: "option_toggle_AN", Name: "Author's Note", Icon: "fa-note-sticky", DiscoveredOrder: 0},
	{ID: "option_toggle_CFG", Name: "CFG Scale", Icon: "fa-scale-balanced", DiscoveredOrder: 1},
	{ID: "option_toggle_logprobs", Name: "Token Probabilities", Icon: "fa-pie-chart", DiscoveredOrder: 2},
	{ID: "option_back_to_main", Name: "Back to parent chat", Icon: "fa-left-long", DiscoveredOrder: 3},
	{ID: "option_new_bookmark", Name: "Save checkpoint", Icon: "fa-flag", DiscoveredOrder: 4},
	{ID: "option_convert_to_group", Name: "Convert to group", Icon: "fa-people-arrows", DiscoveredOrder: 5},
	{ID: "option_start_new_chat", Name: "Start new chat", Icon: "fa-comments", DiscoveredOrder: 6},
	{ID: "option_close_chat", Name: "Close chat", Icon: "fa-times", DiscoveredOrder: 7},
	{ID: "option_select_chat", Name: "Manage chat files", Icon: "fa-address-book", DiscoveredOrder: 8},
	{ID: "option_delete_mes", Name: "Delete messages", Icon: "fa-trash-can", DiscoveredOrder: 9},
	{ID: "option_regenerate", Name: "Regenerate", Icon: "fa-repeat", DiscoveredOrder: 10},
	{ID: "option_impersonate", Name: "Impersonate", Icon: "fa-user-secret", DiscoveredOrder: 11},
	{ID: "option_continue", Name: "Continue", Icon: "fa-arrow-right", DiscoveredOrder: 12},
}

// SeedItems turns discovered entries into fresh, uncustomized items.
func SeedItems(found []DiscoveredItem) []Item {
	out := make([]Item, 0, len(found))
	for _, d := range found {
		out = append(out, Item{
			ID:    d.ID,
			Name:  d.Name,
			Icon:  d.Icon,
			Order: IntPtr(d.DiscoveredOrder),
		})
	}
	return out
}

// NewSettings returns settings with the primary scope seeded and the secondary scope
// empty pending its first discovery.
func NewSettings() *Settings {
	return &Settings{
		Version:       SettingsVersion,
		PrimaryMenu:   ScopeState{Items: SeedItems(DefaultPrimaryItems), Categories: []Category{}},
		SecondaryMenu: ScopeState{Items: []Item{}, Categories: []Category{}},
	}
}
