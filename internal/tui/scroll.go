package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// rowUnits is the drag geometry of one terminal row. Two units per row give every row a
// top and bottom half, so the pointer's direction of travel can pick a side.
const rowUnits = 2

const (
	defaultScrollMargin = 2
	scrollInterval      = 80 * time.Millisecond
)

// rowViewport is the visible window over the rendered rows. It measures in drag units
// for the engine and in rows for rendering.
type rowViewport struct {
	height int
	offset int
	total  int
}

func (v *rowViewport) Height() float64 { return float64(v.height * rowUnits) }
func (v *rowViewport) Offset() float64 { return float64(v.offset * rowUnits) }

func (v *rowViewport) ScrollBy(delta float64) {
	v.offset += int(delta / rowUnits)
	v.clamp()
}

func (v *rowViewport) clamp() {
	max := v.total - v.height
	if max < 0 {
		max = 0
	}
	if v.offset > max {
		v.offset = max
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// reveal scrolls just enough to show row i.
func (v *rowViewport) reveal(i int) {
	if v.height <= 0 {
		return
	}
	if i < v.offset {
		v.offset = i
	}
	if i >= v.offset+v.height {
		v.offset = i - v.height + 1
	}
	v.clamp()
}

type scrollTickMsg struct{ gen int }

// tickScheduler runs the drag engine's auto-scroll on the event loop: each armed
// callback is driven by tea.Tick messages carrying its generation, so a stale tick from
// a stopped run does nothing.
type tickScheduler struct {
	gen      int
	fn       func()
	interval time.Duration
	armed    bool
}

func (s *tickScheduler) Every(interval time.Duration, fn func()) (stop func()) {
	s.gen++
	gen := s.gen
	s.fn = fn
	s.interval = interval
	s.armed = true
	return func() {
		if s.gen == gen {
			s.gen++
			s.fn = nil
			s.armed = false
		}
	}
}

// start returns the first tick of a freshly armed run.
func (s *tickScheduler) start() tea.Cmd {
	if !s.armed || s.fn == nil {
		return nil
	}
	s.armed = false
	return s.next()
}

func (s *tickScheduler) next() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return scrollTickMsg{gen: gen} })
}

func (s *tickScheduler) handle(msg scrollTickMsg) tea.Cmd {
	if msg.gen != s.gen || s.fn == nil {
		return nil
	}
	s.fn()
	if msg.gen != s.gen || s.fn == nil {
		return nil
	}
	return s.next()
}

func (s *tickScheduler) running() bool { return s.fn != nil }
