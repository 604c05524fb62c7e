// Package hostdoc is the external item source: the host application's menu markup,
// parsed into a mutable element tree.
//
// Elements are plain *html.Node values. Moving a node never recreates it, so click
// listeners registered with OnClick follow the node wherever it goes.
package hostdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const defaultCacheSize = 512

// Listener is a click handler bound to one element.
type Listener func(n *html.Node)

type Document struct {
	root      *html.Node
	ids       *lru.Cache[string, *html.Node]
	listeners map[*html.Node][]Listener
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse host document: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse over a string; handy for fixtures.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func newDocument(root *html.Node) *Document {
	cache, err := lru.New[string, *html.Node](defaultCacheSize)
	if err != nil {
		// Only fails for a non-positive size.
		panic(err)
	}
	return &Document{root: root, ids: cache, listeners: map[*html.Node][]Listener{}}
}

func (d *Document) Root() *html.Node { return d.root }

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var b bytes.Buffer
	_ = d.Render(&b)
	return b.String()
}

// Save renders the document to path via a temp file and rename.
func (d *Document) Save(path string) error {
	var b bytes.Buffer
	if err := d.Render(&b); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b.Bytes()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ByID finds the element carrying id. Cached entries are revalidated on every hit since
// nodes may have been detached or renamed since they were cached.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	if n, ok := d.ids.Get(id); ok {
		if ID(n) == id && d.Contains(n) {
			return n
		}
		d.ids.Remove(id)
	}
	n := FindFirst(d.root, func(n *html.Node) bool { return ID(n) == id })
	if n != nil {
		d.ids.Add(id, n)
	}
	return n
}

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// SetID assigns an id attribute and primes the lookup cache.
func (d *Document) SetID(n *html.Node, id string) {
	if old := ID(n); old != "" {
		d.ids.Remove(old)
	}
	SetAttr(n, "id", id)
	if id != "" {
		d.ids.Add(id, n)
	}
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string, classes ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if len(classes) > 0 {
		SetAttr(n, "class", strings.Join(classes, " "))
	}
	return n
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Append moves child to the end of parent.
func (d *Document) Append(parent, child *html.Node) {
	if parent == nil || child == nil || parent == child {
		return
	}
	detach(child)
	parent.AppendChild(child)
}

// Prepend moves child to the front of parent.
func (d *Document) Prepend(parent, child *html.Node) {
	if parent == nil || child == nil || parent == child {
		return
	}
	detach(child)
	parent.InsertBefore(child, parent.FirstChild)
}

// InsertBefore moves child directly before ref. A nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil || child == ref {
		return
	}
	if ref != nil && ref.Parent != parent {
		return
	}
	detach(child)
	parent.InsertBefore(child, ref)
}

// InsertAfter moves child directly after ref.
func (d *Document) InsertAfter(parent, child, ref *html.Node) {
	if ref == nil {
		d.Append(parent, child)
		return
	}
	next := ref.NextSibling
	if next == child {
		return
	}
	d.InsertBefore(parent, child, next)
}

// Remove detaches n and drops listeners bound to it or anything beneath it.
func (d *Document) Remove(n *html.Node) {
	if n == nil {
		return
	}
	Walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		if id := ID(c); id != "" {
			d.ids.Remove(id)
		}
		return true
	})
	detach(n)
}

// OnClick binds a listener to n. Listeners accumulate; they are dropped only by Remove.
func (d *Document) OnClick(n *html.Node, fn Listener) {
	if n == nil || fn == nil {
		return
	}
	d.listeners[n] = append(d.listeners[n], fn)
}

// Click fires n's listeners. It reports false when nothing was bound.
func (d *Document) Click(n *html.Node) bool {
	fns := d.listeners[n]
	if len(fns) == 0 {
		return false
	}
	for _, fn := range append([]Listener(nil), fns...) {
		fn(n)
	}
	return true
}

// ClickID is Click for the element carrying id, or its nearest listening ancestor.
func (d *Document) ClickID(id string) error {
	n := d.ByID(id)
	if n == nil {
		return fmt.Errorf("element %q not found", id)
	}
	for p := n; p != nil; p = p.Parent {
		if d.Click(p) {
			return nil
		}
	}
	return errors.New("no click listener bound")
}

// ListenerCount is the number of listeners bound to n.
func (d *Document) ListenerCount(n *html.Node) int {
	return len(d.listeners[n])
}
