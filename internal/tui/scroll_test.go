package tui

import (
	"strings"
	"testing"
	"time"

	"menu-customizer/internal/drag"
	"menu-customizer/internal/model"
)

func TestRowViewport_ScrollClampsToContent(t *testing.T) {
	v := &rowViewport{height: 5, total: 12}
	v.ScrollBy(3 * rowUnits)
	if v.offset != 3 || v.Offset() != float64(3*rowUnits) {
		t.Fatalf("offset = %d", v.offset)
	}
	v.ScrollBy(100 * rowUnits)
	if v.offset != 7 {
		t.Fatalf("offset = %d, want 7", v.offset)
	}
	v.ScrollBy(-100 * rowUnits)
	if v.offset != 0 {
		t.Fatalf("offset = %d, want 0", v.offset)
	}
	v.reveal(9)
	if v.offset != 5 {
		t.Fatalf("reveal(9) offset = %d, want 5", v.offset)
	}
	v.reveal(2)
	if v.offset != 2 {
		t.Fatalf("reveal(2) offset = %d, want 2", v.offset)
	}
}

func TestTickScheduler_StopInvalidatesPendingTicks(t *testing.T) {
	s := &tickScheduler{}
	calls := 0
	stop := s.Every(10*time.Millisecond, func() { calls++ })
	if cmd := s.start(); cmd == nil {
		t.Fatalf("expected a first tick")
	}
	if cmd := s.start(); cmd != nil {
		t.Fatalf("start armed twice")
	}

	gen := s.gen
	if cmd := s.handle(scrollTickMsg{gen: gen}); cmd == nil {
		t.Fatalf("expected the next tick")
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}

	stop()
	if s.running() {
		t.Fatalf("still running after stop")
	}
	if cmd := s.handle(scrollTickMsg{gen: gen}); cmd != nil || calls != 1 {
		t.Fatalf("stale tick ran: calls=%d", calls)
	}
}

func TestTickScheduler_StopFromCallbackEndsLoop(t *testing.T) {
	s := &tickScheduler{}
	var stop func()
	stop = s.Every(time.Millisecond, func() { stop() })
	s.start()
	if cmd := s.handle(scrollTickMsg{gen: s.gen}); cmd != nil {
		t.Fatalf("loop continued after the callback stopped it")
	}
}

func TestFlatten_SkipsCollapsedMembers(t *testing.T) {
	cat := "c1"
	st := model.ScopeState{
		Items: []model.Item{
			{ID: "a", Name: "A", Order: model.IntPtr(0), CategoryID: &cat},
			{ID: "b", Name: "B", Order: model.IntPtr(1), Hidden: true},
		},
		Categories: []model.Category{{ID: cat, Name: "Group", Order: model.IntPtr(0), Expanded: model.BoolPtr(false)}},
	}
	l := drag.BuildList(model.ScopePrimary, &st)
	rows := flatten(l)
	if len(rows) != 2 || rowKey(rows[0].node) != "category:c1" || rowKey(rows[1].node) != "item:b" {
		t.Fatalf("rows = %+v", rows)
	}
	if got := rowText(&st, rows[0]); got != "▸ Group (1)" {
		t.Fatalf("header = %q", got)
	}
	if got := rowText(&st, rows[1]); got != "[ ] B" {
		t.Fatalf("item = %q", got)
	}

	l.Root.Nodes[0].Collapsed = false
	rows = flatten(l)
	if len(rows) != 3 || rows[1].depth != 1 || rows[1].position() != 0 {
		t.Fatalf("expanded rows = %+v", rows)
	}
	if got := rowText(&st, rows[1]); !strings.HasPrefix(got, "  [x] A") {
		t.Fatalf("member = %q", got)
	}
}

func TestNormalizePane_PadsAndTruncates(t *testing.T) {
	out := normalizePane("abcdefgh\nxy", 5, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	if lines[0] != "abcd…" || lines[1] != "xy   " || lines[2] != "     " {
		t.Fatalf("got %q", lines)
	}
}
