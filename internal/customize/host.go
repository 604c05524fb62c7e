package customize

import (
	"bytes"
	"os"
	"sync"

	"menu-customizer/internal/discovery"
	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/model"
)

// Host is the loaded host document plus the extensions-menu scanner over it.
// Reload swaps the document in place; the scanner keeps its synthetic id counter.
type Host struct {
	Path string
	// Saved is told about every write, so a file watcher can ignore its own echo.
	Saved func(content []byte)

	mu      sync.Mutex
	doc     *hostdoc.Document
	scanner *discovery.MenuScanner
}

func OpenHost(path string) (*Host, error) {
	doc, err := hostdoc.Load(path)
	if err != nil {
		return nil, err
	}
	return NewHost(path, doc), nil
}

func NewHost(path string, doc *hostdoc.Document) *Host {
	return &Host{Path: path, doc: doc, scanner: discovery.NewMenuScanner(doc)}
}

func (h *Host) Doc() *hostdoc.Document {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

// Scanners returns the discovery source of each scope that is discovered rather than seeded.
func (h *Host) Scanners() map[model.Scope]discovery.Scanner {
	return map[model.Scope]discovery.Scanner{
		model.ScopeSecondary: discovery.ScannerFunc(h.scan),
	}
}

func (h *Host) scan() []model.DiscoveredItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scanner.Scan()
}

// Reload re-reads the document from Path.
func (h *Host) Reload() error {
	doc, err := hostdoc.Load(h.Path)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.doc = doc
	h.scanner.Reset(doc)
	h.mu.Unlock()
	return nil
}

// Save writes the document back to Path. Unchanged content is not rewritten.
func (h *Host) Save() error {
	if h.Path == "" {
		return nil
	}
	doc := h.Doc()
	content := []byte(doc.String())
	if cur, err := os.ReadFile(h.Path); err == nil && bytes.Equal(cur, content) {
		return nil
	}
	if h.Saved != nil {
		h.Saved(content)
	}
	return doc.Save(h.Path)
}
