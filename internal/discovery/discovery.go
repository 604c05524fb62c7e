// Package discovery enumerates the items currently present in a host menu.
package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/model"
)

// Scanner reports the items a scope currently exposes, in menu order.
type Scanner interface {
	Scan() []model.DiscoveredItem
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func() []model.DiscoveredItem

func (f ScannerFunc) Scan() []model.DiscoveredItem { return f() }

// StaticScanner serves a fixed table. The chat menu is never scanned; its items come
// from the built-in seed.
type StaticScanner struct {
	Items []model.DiscoveredItem
}

func (s StaticScanner) Scan() []model.DiscoveredItem {
	return append([]model.DiscoveredItem(nil), s.Items...)
}

const (
	// SyntheticIDPrefix names elements that had no id of their own.
	SyntheticIDPrefix = "menu_customizer_auto_"

	WrapperClass = "menu-customizer-category-wrapper"
	ContentClass = "menu-customizer-category-content"

	containerClass = "extension_container"
	buttonClass    = "extensionsMenuExtensionButton"
)

var iconToken = regexp.MustCompile(`fa-[\w-]+`)

// MenuScanner walks the extensions menu of a host document.
//
// Elements without an id get a synthetic one, written back onto the element so later
// scans in the same session see the same identity.
type MenuScanner struct {
	Doc *hostdoc.Document
	// RootID is the menu container's id; empty means "extensionsMenu".
	RootID string

	counter int
}

func NewMenuScanner(doc *hostdoc.Document) *MenuScanner {
	return &MenuScanner{Doc: doc}
}

func (s *MenuScanner) rootID() string {
	if s.RootID != "" {
		return s.RootID
	}
	return "extensionsMenu"
}

// Reset points the scanner at a freshly loaded document.
func (s *MenuScanner) Reset(doc *hostdoc.Document) {
	s.Doc = doc
	s.counter = 0
}

func (s *MenuScanner) Scan() []model.DiscoveredItem {
	if s == nil || s.Doc == nil {
		return nil
	}
	root := s.Doc.ByID(s.rootID())
	if root == nil {
		return nil
	}
	// Synthetic ids follow document order, so an id-less element keeps its id when the
	// host rewrites the same markup. nextID skips ids already in the document.
	s.counter = 0

	c := collector{scanner: s, seen: map[string]bool{}}
	index := 0
	for _, el := range hostdoc.Children(root) {
		if hostdoc.HasClass(el, WrapperClass) {
			content := hostdoc.Query(el, "."+ContentClass)
			for _, child := range hostdoc.Children(content) {
				c.collect(child, index)
				index++
			}
			continue
		}
		c.collect(el, index)
		index++
	}
	return c.items
}

type collector struct {
	scanner *MenuScanner
	items   []model.DiscoveredItem
	seen    map[string]bool
}

func (c *collector) collect(el *html.Node, index int) {
	if hostdoc.Is(el, "hr") || len(hostdoc.Children(el)) == 0 {
		return
	}
	if hostdoc.HasClass(el, WrapperClass) {
		return
	}
	if !discoverable(el) {
		return
	}

	if hostdoc.HasClass(el, containerClass) {
		// Containers group several clickable entries; each child stands on its own.
		for _, child := range hostdoc.Children(el) {
			if !discoverable(child) || !clickable(child, true) {
				continue
			}
			c.emit(child, index)
			index++
		}
		return
	}

	if !clickable(el, false) {
		return
	}
	c.emit(el, index)
}

func (c *collector) emit(el *html.Node, order int) {
	name := Name(el)
	if name == "" {
		return
	}
	id := hostdoc.ID(el)
	if id == "" {
		id = c.scanner.nextID()
		c.scanner.Doc.SetID(el, id)
	}
	if c.seen[id] {
		return
	}
	c.seen[id] = true
	c.items = append(c.items, model.DiscoveredItem{
		ID:              id,
		Name:            name,
		Icon:            Icon(el),
		DiscoveredOrder: order,
	})
}

func (s *MenuScanner) nextID() string {
	for {
		id := fmt.Sprintf("%s%d", SyntheticIDPrefix, s.counter)
		s.counter++
		if s.Doc.ByID(id) == nil {
			return id
		}
	}
}

// discoverable: visible, or hidden only by this tool.
func discoverable(el *html.Node) bool {
	return hostdoc.IsVisible(el) || hostdoc.HasClass(el, hostdoc.HiddenMarker)
}

func clickable(el *html.Node, inContainer bool) bool {
	if hostdoc.Query(el, "."+buttonClass) != nil {
		return true
	}
	if hostdoc.HasClass(el, "interactable") || hostdoc.HasClass(el, "list-group-item") {
		return true
	}
	if hostdoc.Is(el, "a") {
		return true
	}
	return inContainer && hostdoc.Is(el, "div")
}

// Name is the concatenated text of the element's spans, falling back to its own text.
func Name(el *html.Node) string {
	var b strings.Builder
	for _, span := range hostdoc.QueryAll(el, "span") {
		writeText(&b, span)
	}
	if name := strings.TrimSpace(b.String()); name != "" {
		return name
	}
	b.Reset()
	writeText(&b, el)
	return strings.TrimSpace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	hostdoc.Walk(n, func(x *html.Node) bool {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		return true
	})
}

// Icon extracts the icon tokens of the element's first <i>, dropping the size modifier
// and host-specific button tokens.
func Icon(el *html.Node) string {
	i := hostdoc.Query(el, "i")
	if i == nil {
		return ""
	}
	class, _ := hostdoc.Attr(i, "class")
	var keep []string
	for _, tok := range iconToken.FindAllString(class, -1) {
		if tok == "fa-lg" || strings.Contains(tok, "extensionsMenu") {
			continue
		}
		keep = append(keep, tok)
	}
	return strings.Join(keep, " ")
}
