// Package drag turns pointer motion over the editor list into reorder and recategorize
// commits.
package drag

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"menu-customizer/internal/model"
)

const (
	DefaultMargin   = 60
	DefaultStep     = 10
	DefaultInterval = 16 * time.Millisecond
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome is how a gesture ended.
type Outcome string

const (
	OutcomeDropped   Outcome = "dropped"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeRejected  Outcome = "rejected"
)

// Viewport is the scrollable area the list is shown in.
type Viewport interface {
	Height() float64
	Offset() float64
	ScrollBy(delta float64)
}

// Scheduler runs fn every interval until stop is called. fn must run serialized with
// the engine's other calls (on the UI event loop).
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// Committer persists a finished drop and re-applies the scope.
type Committer func(Plan) error

// Recorder observes finished gestures (metrics).
type Recorder interface {
	Dragged(scope model.Scope, outcome Outcome)
}

type Options struct {
	Margin    float64
	Step      float64
	Interval  time.Duration
	Viewport  Viewport
	Scheduler Scheduler
	Commit    Committer
	Recorder  Recorder
	Logger    *slog.Logger
}

// Engine is one drag gesture at a time over an editor list.
type Engine struct {
	opts Options

	state  State
	list   *List
	scope  model.Scope
	node   *Node
	ph     *Node
	// foreign is set while the pointer is over a list of another scope.
	foreign bool

	lastY      float64
	scrollDir  int
	stopScroll func()
}

var ErrNotDragging = errors.New("no drag in progress")

func New(opts Options) *Engine {
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{opts: opts}
}

func (e *Engine) State() State   { return e.state }
func (e *Engine) Dragging() bool { return e.state == Dragging }

func (e *Engine) ItemID() string {
	if e.node == nil {
		return ""
	}
	return e.node.ID
}

// ScrollDirection is -1 or 1 while auto-scrolling, else 0.
func (e *Engine) ScrollDirection() int { return e.scrollDir }

// Placeholder reports where the item would land: the container's category id (empty for
// the root list) and the index among that container's nodes.
func (e *Engine) Placeholder() (categoryID string, index int, ok bool) {
	if e.ph == nil || e.list == nil {
		return "", 0, false
	}
	c := e.list.containerOf(e.ph)
	if c == nil {
		return "", 0, false
	}
	return c.CategoryID, c.index(e.ph), true
}

// PlaceholderNode is the placeholder itself, for rendering.
func (e *Engine) PlaceholderNode() *Node { return e.ph }

// Start begins dragging itemID and puts the placeholder directly after it.
func (e *Engine) Start(list *List, itemID string) error {
	if e.state == Dragging {
		e.Cancel()
	}
	node, c := list.Find(KindItem, itemID)
	if node == nil {
		return fmt.Errorf("%w: item %s", ErrNotInList, itemID)
	}
	e.state = Dragging
	e.list = list
	e.scope = list.Scope
	e.node = node
	e.foreign = false
	e.ph = &Node{Kind: KindPlaceholder}
	c.insert(c.index(node)+1, e.ph)
	e.opts.Logger.Debug("drag started", "scope", e.scope, "item", itemID)
	return nil
}

// Retarget switches the list under the pointer, e.g. when the editor changes tabs.
// A list of another scope can never receive the item.
func (e *Engine) Retarget(list *List) {
	if e.state != Dragging || list == nil {
		return
	}
	if list.Scope != e.scope {
		e.foreign = true
		return
	}
	e.foreign = false
	if list != e.list {
		// Same scope, fresh rendering: carry the gesture over to it.
		if n, _ := list.Find(KindItem, e.node.ID); n != nil {
			if c := e.list.containerOf(e.ph); c != nil {
				c.remove(e.ph)
			}
			e.list = list
			e.node = n
			c := list.containerOf(n)
			c.insert(c.index(n)+1, e.ph)
		}
	}
}

// Move handles pointer motion at viewport coordinate y.
func (e *Engine) Move(y float64) {
	if e.state != Dragging {
		return
	}
	e.lastY = y
	e.updateAutoScroll(y)
	if e.foreign {
		return
	}
	e.place(y + e.offset())
}

func (e *Engine) offset() float64 {
	if e.opts.Viewport == nil {
		return 0
	}
	return e.opts.Viewport.Offset()
}

func (e *Engine) updateAutoScroll(y float64) {
	if e.opts.Viewport == nil {
		return
	}
	dir := 0
	switch {
	case y < e.opts.Margin:
		dir = -1
	case y > e.opts.Viewport.Height()-e.opts.Margin:
		dir = 1
	}
	if dir == 0 {
		e.stopAutoScroll()
		return
	}
	if e.scrollDir != 0 {
		// Already scrolling; the direction is fixed until the pointer leaves the zone.
		return
	}
	e.scrollDir = dir
	if e.opts.Scheduler != nil {
		e.stopScroll = e.opts.Scheduler.Every(e.opts.Interval, e.tick)
	}
}

func (e *Engine) tick() {
	if e.state != Dragging || e.scrollDir == 0 || e.opts.Viewport == nil {
		return
	}
	e.opts.Viewport.ScrollBy(float64(e.scrollDir) * e.opts.Step)
	if !e.foreign {
		e.place(e.lastY + e.offset())
	}
}

func (e *Engine) stopAutoScroll() {
	if e.stopScroll != nil {
		e.stopScroll()
		e.stopScroll = nil
	}
	e.scrollDir = 0
}

// place moves the placeholder for content coordinate y. Nothing under the pointer
// leaves it where it is.
func (e *Engine) place(y float64) {
	root := e.list.Root

	// Directly over another item: before or after it by midpoint.
	for _, n := range root.Nodes {
		if n.Kind == KindItem && n != e.node && n.Box.Contains(y) {
			e.putBeside(root, n, y < n.Box.Mid())
			return
		}
		if n.Kind != KindCategory {
			continue
		}
		for _, m := range n.Content.Nodes {
			if m.Kind == KindItem && m != e.node && m.Box.Contains(y) {
				e.putBeside(n.Content, m, y < m.Box.Mid())
				return
			}
		}
	}

	for _, n := range root.Nodes {
		if n.Kind != KindCategory {
			continue
		}
		// Over a header: first slot of that category.
		if n.Box.Contains(y) {
			e.moveTo(n.Content, 0)
			return
		}
		if n.Content.Box.Contains(y) {
			e.putNearest(n.Content, y)
			return
		}
	}

	if root.Box.Contains(y) {
		e.putNearest(root, y)
	}
}

func (e *Engine) putBeside(c *Container, target *Node, before bool) {
	e.detachPlaceholder()
	i := c.index(target)
	if !before {
		i++
	}
	c.insert(i, e.ph)
}

func (e *Engine) moveTo(c *Container, at int) {
	e.detachPlaceholder()
	c.insert(at, e.ph)
}

func (e *Engine) detachPlaceholder() {
	if c := e.list.containerOf(e.ph); c != nil {
		c.remove(e.ph)
	}
}

// putNearest puts the placeholder beside the sibling whose top or bottom edge is closest
// to y, or at the end when the container has no other siblings. Ties keep the first
// candidate.
func (e *Engine) putNearest(c *Container, y float64) {
	var best *Node
	before := false
	min := math.Inf(1)
	for _, n := range c.Nodes {
		if n == e.node || n == e.ph {
			continue
		}
		ext := n.Extent()
		if d := math.Abs(y - ext.Top); d < min {
			min, best, before = d, n, true
		}
		if d := math.Abs(y - ext.Bottom); d < min {
			min, best, before = d, n, false
		}
	}
	if best == nil {
		e.moveTo(c, len(c.Nodes))
		return
	}
	e.putBeside(c, best, before)
}

// Drop ends the gesture, moving the item to the placeholder and committing the new order.
// A drop over another scope's list is treated as Cancel.
func (e *Engine) Drop() (Plan, error) {
	if e.state != Dragging {
		return Plan{}, ErrNotDragging
	}
	if e.foreign {
		e.finish(OutcomeRejected)
		return Plan{}, nil
	}
	target := e.list.containerOf(e.ph)
	if target == nil {
		e.finish(OutcomeCancelled)
		return Plan{}, nil
	}

	from := e.list.containerOf(e.node)
	at := target.index(e.ph)
	target.remove(e.ph)
	if from == target && from.index(e.node) < at {
		at--
	}
	from.remove(e.node)
	target.insert(at, e.node)
	e.ph = nil

	plan := e.list.Plan()
	e.finish(OutcomeDropped)

	if e.opts.Commit != nil {
		if err := e.opts.Commit(plan); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

// Cancel abandons the gesture. The model is untouched.
func (e *Engine) Cancel() {
	if e.state != Dragging {
		e.stopAutoScroll()
		return
	}
	e.finish(OutcomeCancelled)
}

func (e *Engine) finish(outcome Outcome) {
	e.stopAutoScroll()
	if e.ph != nil && e.list != nil {
		e.detachPlaceholder()
	}
	scope := e.scope
	e.state = Idle
	e.ph = nil
	e.node = nil
	e.list = nil
	e.foreign = false
	if e.opts.Recorder != nil {
		e.opts.Recorder.Dragged(scope, outcome)
	}
	e.opts.Logger.Debug("drag finished", "scope", scope, "outcome", outcome)
}
