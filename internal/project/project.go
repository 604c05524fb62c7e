// Package project renders the customization model onto the host document.
package project

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
)

// Store is the slice of the model store the projector needs.
type Store interface {
	Lock()
	Unlock()
	Get(scope model.Scope) *model.ScopeState
	Persist()
}

// Recorder observes apply passes (metrics).
type Recorder interface {
	Applied(scope model.Scope, r Result)
}

// Result summarizes one apply pass.
type Result struct {
	Wrappers int      `json:"wrappers"`
	Hidden   int      `json:"hidden"`
	Missing  []string `json:"missing,omitempty"`
	// NoRoot is set when the scope's container is absent from the document.
	NoRoot bool `json:"noRoot,omitempty"`
}

type Projector struct {
	Doc      func() *hostdoc.Document
	Store    Store
	Targets  map[model.Scope]Target
	Logger   *slog.Logger
	Recorder Recorder
}

func (p *Projector) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Projector) target(scope model.Scope) (Target, bool) {
	if p.Targets == nil {
		t, ok := DefaultTargets()[scope]
		return t, ok
	}
	t, ok := p.Targets[scope]
	return t, ok
}

// ApplyAll applies every scope in order.
func (p *Projector) ApplyAll() map[model.Scope]Result {
	out := map[model.Scope]Result{}
	for _, scope := range model.AllScopes() {
		out[scope] = p.Apply(scope)
	}
	return out
}

// Apply makes the host document reflect the model for scope. It can run any number of
// times; each pass first undoes the structure the previous one built, so the outcome
// depends only on the model. Elements the model names but the document lacks are
// skipped.
//
// Must not be called while holding the store lock.
func (p *Projector) Apply(scope model.Scope) Result {
	var res Result
	doc := p.doc()
	tgt, ok := p.target(scope)
	if doc == nil || !ok {
		res.NoRoot = true
		return res
	}
	root := doc.Query(tgt.Root)
	if root == nil {
		res.NoRoot = true
		p.logger().Debug("apply skipped: no menu container", "scope", scope, "root", tgt.Root)
		return res
	}

	p.Store.Lock()
	st := p.Store.Get(scope)
	items := order.SortedItems(st)
	cats := order.SortedCategories(st)
	categoryOf := make(map[string]*string, len(items))
	for _, it := range items {
		categoryOf[it.ID] = order.EffectiveCategory(st, it)
	}
	p.Store.Unlock()

	unwrap(doc, root)

	for _, it := range items {
		if el := doc.ByID(it.ID); el != nil {
			hostdoc.RemoveClass(el, hostdoc.HiddenMarker)
		}
	}

	for _, it := range items {
		el := doc.ByID(it.ID)
		if el == nil {
			res.Missing = append(res.Missing, it.ID)
			continue
		}
		if it.Hidden {
			hostdoc.AddClass(el, hostdoc.HiddenMarker)
			res.Hidden++
		}
		if label := findLabel(el, tgt.Labels); label != nil {
			hostdoc.SetText(label, it.DisplayName())
		}
	}

	for i := len(cats) - 1; i >= 0; i-- {
		cat := cats[i]
		var members []*html.Node
		for _, it := range items {
			c := categoryOf[it.ID]
			if it.Hidden || c == nil || *c != cat.ID {
				continue
			}
			if el := doc.ByID(it.ID); el != nil {
				members = append(members, el)
			}
		}
		if len(members) == 0 {
			continue
		}

		wrapper, content, toggle := p.buildWrapper(doc, tgt, cat)
		doc.Prepend(root, wrapper)
		for _, el := range members {
			doc.Append(content, el)
		}
		doc.OnClick(toggle, p.toggleHandler(scope, cat.ID))
		res.Wrappers++
	}

	for _, it := range items {
		if it.Hidden || categoryOf[it.ID] != nil {
			continue
		}
		el := doc.ByID(it.ID)
		if el == nil || insideWrapper(el) {
			continue
		}
		doc.Append(root, el)
	}

	if p.Recorder != nil {
		p.Recorder.Applied(scope, res)
	}
	p.logger().Debug("applied", "scope", scope, "wrappers", res.Wrappers, "hidden", res.Hidden, "missing", len(res.Missing))
	return res
}

func (p *Projector) doc() *hostdoc.Document {
	if p.Doc == nil {
		return nil
	}
	return p.Doc()
}

// unwrap moves every wrapped element back to root and removes the wrappers.
func unwrap(doc *hostdoc.Document, root *html.Node) {
	for _, w := range hostdoc.QueryAll(root, "."+WrapperClass) {
		content := hostdoc.Query(w, "."+ContentClass)
		for _, el := range hostdoc.Children(content) {
			doc.Append(root, el)
		}
	}
	for _, w := range hostdoc.QueryAll(root, "."+WrapperClass) {
		doc.Remove(w)
	}
}

func insideWrapper(el *html.Node) bool {
	return hostdoc.Closest(el, func(n *html.Node) bool { return hostdoc.HasClass(n, WrapperClass) }) != nil
}

func findLabel(el *html.Node, selectors []string) *html.Node {
	for _, sel := range selectors {
		if n := hostdoc.Query(el, sel); n != nil {
			return n
		}
	}
	return nil
}

func (p *Projector) buildWrapper(doc *hostdoc.Document, tgt Target, cat model.Category) (wrapper, content, toggle *html.Node) {
	expanded := cat.IsExpanded()

	wrapper = doc.CreateElement("div", append([]string{WrapperClass}, tgt.WrapperClasses...)...)
	hostdoc.SetAttr(wrapper, CategoryAttr, cat.ID)

	toggleClasses := append([]string{ToggleClass}, tgt.ToggleClasses...)
	if expanded {
		toggleClasses = append(toggleClasses, ExpandedFlag)
	}
	toggle = doc.CreateElement(tgt.ToggleTag, toggleClasses...)

	folder := append(append([]string{}, tgt.FolderClasses...), folderIcon(expanded))
	folder = append(folder, tgt.FolderExtra...)
	doc.Append(toggle, doc.CreateElement("i", folder...))

	label := doc.CreateElement("span")
	hostdoc.SetText(label, cat.Name)
	doc.Append(toggle, label)

	chevron := doc.CreateElement("i", "fa-solid", chevronIcon(expanded), toggleIcon)
	if tgt.ChevronStyle != "" {
		hostdoc.SetAttr(chevron, "style", tgt.ChevronStyle)
	}
	doc.Append(toggle, chevron)

	contentClasses := []string{ContentClass}
	if expanded {
		contentClasses = append(contentClasses, ExpandedFlag)
	}
	content = doc.CreateElement("div", contentClasses...)

	doc.Append(wrapper, toggle)
	doc.Append(wrapper, content)
	return wrapper, content, toggle
}

func folderIcon(expanded bool) string {
	if expanded {
		return "fa-folder-open"
	}
	return "fa-folder"
}

func chevronIcon(expanded bool) string {
	if expanded {
		return "fa-chevron-down"
	}
	return "fa-chevron-right"
}

// toggleHandler flips the wrapper's visual state and records it on the category.
func (p *Projector) toggleHandler(scope model.Scope, categoryID string) hostdoc.Listener {
	return func(toggle *html.Node) {
		wrapper := toggle.Parent
		content := hostdoc.Query(wrapper, "."+ContentClass)
		was := hostdoc.HasClass(toggle, ExpandedFlag)
		SetExpandedVisual(toggle, content, !was)

		p.Store.Lock()
		c, ok := p.Store.Get(scope).FindCategory(categoryID)
		if ok {
			c.Expanded = model.BoolPtr(!was)
		}
		p.Store.Unlock()
		if ok {
			p.Store.Persist()
		}
	}
}

// SetExpandedVisual switches a wrapper's toggle and content between expanded and collapsed.
func SetExpandedVisual(toggle, content *html.Node, expanded bool) {
	if expanded {
		hostdoc.AddClass(toggle, ExpandedFlag)
		hostdoc.AddClass(content, ExpandedFlag)
	} else {
		hostdoc.RemoveClass(toggle, ExpandedFlag)
		hostdoc.RemoveClass(content, ExpandedFlag)
	}
	for _, i := range hostdoc.QueryAll(toggle, "i") {
		switch {
		case hostdoc.HasClass(i, toggleIcon):
			hostdoc.ReplaceClass(i, chevronIcon(!expanded), chevronIcon(expanded))
		case hostdoc.HasClass(i, folderIcon(!expanded)):
			hostdoc.ReplaceClass(i, folderIcon(!expanded), folderIcon(expanded))
		}
	}
}

// WrapperFor returns the wrapper element rendered for categoryID, if any.
func WrapperFor(scopeRoot *html.Node, categoryID string) *html.Node {
	for _, w := range hostdoc.QueryAll(scopeRoot, "."+WrapperClass) {
		if v, _ := hostdoc.Attr(w, CategoryAttr); strings.TrimSpace(v) == categoryID {
			return w
		}
	}
	return nil
}
