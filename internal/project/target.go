package project

import "menu-customizer/internal/model"

const (
	WrapperClass = "menu-customizer-category-wrapper"
	ContentClass = "menu-customizer-category-content"
	ToggleClass  = "menu-customizer-category-toggle-btn"
	ExpandedFlag = "expanded"
	toggleIcon   = "toggle-icon"

	// CategoryAttr carries the category id on a wrapper.
	CategoryAttr = "data-category-id"
)

// Target describes where a scope lives in the host document and how its category
// wrappers are built.
type Target struct {
	// Root selects the container holding the scope's items.
	Root string
	// Labels are tried in order to find an item's label element.
	Labels []string

	WrapperClasses []string
	ToggleTag      string
	ToggleClasses  []string
	FolderClasses  []string
	FolderExtra    []string
	ChevronStyle   string
}

var (
	PrimaryTarget = Target{
		Root:          "#options .options-content",
		Labels:        []string{"span[data-i18n]", "span"},
		ToggleTag:     "a",
		FolderClasses: []string{"fa-lg", "fa-solid"},
	}
	SecondaryTarget = Target{
		Root:           "#extensionsMenu",
		Labels:         []string{"span"},
		WrapperClasses: []string{"extension_container"},
		ToggleTag:      "div",
		ToggleClasses:  []string{"list-group-item", "flex-container", "flexGap5", "interactable"},
		FolderClasses:  []string{"fa-lg", "fa-solid"},
		FolderExtra:    []string{"extensionsMenuExtensionButton"},
		ChevronStyle:   "margin-left: auto;",
	}
)

// DefaultTargets maps each scope to its host location.
func DefaultTargets() map[model.Scope]Target {
	return map[model.Scope]Target{
		model.ScopePrimary:   PrimaryTarget,
		model.ScopeSecondary: SecondaryTarget,
	}
}
