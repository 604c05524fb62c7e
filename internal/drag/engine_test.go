package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
)

type viewport struct {
	height, offset float64
}

func (v *viewport) Height() float64     { return v.height }
func (v *viewport) Offset() float64     { return v.offset }
func (v *viewport) ScrollBy(dy float64) { v.offset += dy }

type scheduler struct {
	starts, stops int
	interval      time.Duration
	fn            func()
}

func (s *scheduler) Every(d time.Duration, fn func()) func() {
	s.starts++
	s.interval = d
	s.fn = fn
	return func() {
		s.stops++
		s.fn = nil
	}
}

func (s *scheduler) fire() {
	if s.fn != nil {
		s.fn()
	}
}

type recorder struct{ outcomes []Outcome }

func (r *recorder) Dragged(_ model.Scope, o Outcome) { r.outcomes = append(r.outcomes, o) }

func items(ids ...string) []model.Item {
	out := make([]model.Item, 0, len(ids))
	for i, id := range ids {
		out = append(out, model.Item{ID: id, Name: id, Order: model.IntPtr(i)})
	}
	return out
}

func placement(p Plan, id string) Placement {
	for _, pl := range p.Items {
		if pl.ID == id {
			return pl
		}
	}
	return Placement{}
}

func rootIDs(l *List) []string {
	var out []string
	for _, n := range l.Root.Nodes {
		switch n.Kind {
		case KindPlaceholder:
			out = append(out, "_")
		default:
			out = append(out, n.ID)
		}
	}
	return out
}

func newEngine(commits *[]Plan, rec *recorder, vp *viewport, sch *scheduler) *Engine {
	opts := Options{Margin: 3, Step: 10, Interval: DefaultInterval, Recorder: rec}
	if vp != nil {
		opts.Viewport = vp
	}
	if sch != nil {
		opts.Scheduler = sch
	}
	opts.Commit = func(p Plan) error {
		*commits = append(*commits, p)
		return nil
	}
	return New(opts)
}

func TestDrag_IntoCategoryViaHeader(t *testing.T) {
	st := &model.ScopeState{
		Items:      items("A", "B", "C"),
		Categories: []model.Category{{ID: "tools", Name: "Tools", Order: model.IntPtr(0)}},
	}
	l := BuildList(model.ScopePrimary, st)
	l.Layout(10)

	var commits []Plan
	e := newEngine(&commits, &recorder{}, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "B"))
	require.Equal(t, []string{"tools", "A", "B", "_", "C"}, rootIDs(l))

	e.Move(5)
	cat, idx, ok := e.Placeholder()
	require.True(t, ok)
	require.Equal(t, "tools", cat)
	require.Equal(t, 0, idx)

	plan, err := e.Drop()
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, Idle, e.State())

	b := placement(plan, "B")
	require.NotNil(t, b.CategoryID)
	require.Equal(t, "tools", *b.CategoryID)

	ApplyPlan(st, plan)
	require.True(t, order.Contiguous(st))
	a, _ := st.FindItem("A")
	c, _ := st.FindItem("C")
	require.Nil(t, a.CategoryID)
	require.Nil(t, c.CategoryID)
	require.Equal(t, *a.Order+1, *c.Order, "root items stay adjacent and in order")
	require.Equal(t, []model.Item{*mustItem(t, st, "B"), *a, *c}, st.Items)
}

func mustItem(t *testing.T, st *model.ScopeState, id string) *model.Item {
	t.Helper()
	it, ok := st.FindItem(id)
	require.True(t, ok)
	return it
}

func TestDrag_MidpointBeforeAfter(t *testing.T) {
	st := &model.ScopeState{Items: items("A", "B", "C", "D")}
	l := BuildList(model.ScopeSecondary, st)
	l.Layout(10)

	var commits []Plan
	e := newEngine(&commits, &recorder{}, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "A"))

	e.Move(21)
	require.Equal(t, []string{"A", "B", "_", "C", "D"}, rootIDs(l))
	e.Move(29)
	require.Equal(t, []string{"A", "B", "C", "_", "D"}, rootIDs(l))

	plan, err := e.Drop()
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C", "A", "D"}, rootIDs(l))
	require.Equal(t, 2, placement(plan, "A").Order)

	ApplyPlan(st, plan)
	require.True(t, order.Contiguous(st))
}

func TestDrag_OutOfCategoryAndNearestSibling(t *testing.T) {
	st := &model.ScopeState{
		Items:      items("X", "Y", "R"),
		Categories: []model.Category{{ID: "cat", Name: "Cat", Order: model.IntPtr(0)}},
	}
	st.Items[0].CategoryID = model.StrPtr("cat")
	st.Items[1].CategoryID = model.StrPtr("cat")
	l := BuildList(model.ScopeSecondary, st)
	l.Layout(10) // cat 0-10, X 10-20, Y 20-30, R 30-40

	var commits []Plan
	e := newEngine(&commits, &recorder{}, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "X"))

	// Over the dragged row itself: nearest edge among the other members.
	e.Move(12)
	cat, idx, _ := e.Placeholder()
	require.Equal(t, "cat", cat)
	require.Equal(t, 1, idx)

	e.Move(36)
	require.Equal(t, []string{"cat", "R", "_"}, rootIDs(l))

	plan, err := e.Drop()
	require.NoError(t, err)
	x := placement(plan, "X")
	require.Nil(t, x.CategoryID)
	require.Equal(t, 2, x.Order)
	require.Equal(t, []CategoryOrder{{ID: "cat", Order: 0}}, plan.Categories)
}

func TestDrag_AppendWhenRegionHasNoSiblings(t *testing.T) {
	st := &model.ScopeState{Items: items("A")}
	l := BuildList(model.ScopeSecondary, st)
	l.Layout(10)

	var commits []Plan
	e := newEngine(&commits, &recorder{}, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "A"))
	e.Move(5)
	require.Equal(t, []string{"A", "_"}, rootIDs(l))

	plan, err := e.Drop()
	require.NoError(t, err)
	require.Equal(t, 0, placement(plan, "A").Order)
}

func TestDrag_CollapsedCategoryHeaderStillAccepts(t *testing.T) {
	st := &model.ScopeState{
		Items:      items("M", "A"),
		Categories: []model.Category{{ID: "c", Name: "C", Order: model.IntPtr(0), Expanded: model.BoolPtr(false)}},
	}
	st.Items[0].CategoryID = model.StrPtr("c")
	l := BuildList(model.ScopeSecondary, st)
	l.Layout(10) // header 0-10, M hidden, A 10-20

	require.Len(t, l.Rows(), 2)

	var commits []Plan
	e := newEngine(&commits, &recorder{}, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "A"))
	e.Move(4)
	cat, idx, _ := e.Placeholder()
	require.Equal(t, "c", cat)
	require.Equal(t, 0, idx)

	plan, err := e.Drop()
	require.NoError(t, err)
	require.Equal(t, 0, placement(plan, "A").Order)
	require.Equal(t, 1, placement(plan, "M").Order)
}

func TestDrag_CancelLeavesModelUntouched(t *testing.T) {
	st := &model.ScopeState{Items: items("A", "B")}
	before := st.Clone()
	l := BuildList(model.ScopeSecondary, st)
	l.Layout(10)

	var commits []Plan
	rec := &recorder{}
	e := newEngine(&commits, rec, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "A"))
	e.Move(15)
	e.Cancel()

	require.Equal(t, Idle, e.State())
	require.Empty(t, commits)
	require.Equal(t, []string{"A", "B"}, rootIDs(l))
	require.Equal(t, before, *st)
	require.Equal(t, []Outcome{OutcomeCancelled}, rec.outcomes)

	_, err := e.Drop()
	require.ErrorIs(t, err, ErrNotDragging)
}

func TestDrag_CrossScopeDropIsRejected(t *testing.T) {
	st := &model.ScopeState{Items: items("A", "B")}
	l := BuildList(model.ScopePrimary, st)
	l.Layout(10)
	other := BuildList(model.ScopeSecondary, &model.ScopeState{Items: items("Z")})
	other.Layout(10)

	var commits []Plan
	rec := &recorder{}
	e := newEngine(&commits, rec, &viewport{height: 200}, nil)
	require.NoError(t, e.Start(l, "A"))
	e.Retarget(other)
	e.Move(5)

	plan, err := e.Drop()
	require.NoError(t, err)
	require.True(t, plan.Empty())
	require.Empty(t, commits)
	require.Equal(t, []Outcome{OutcomeRejected}, rec.outcomes)
	require.Equal(t, []string{"Z"}, rootIDs(other))
	require.Equal(t, []string{"A", "B"}, rootIDs(l))
}

func TestDrag_AutoScrollStartsAndStops(t *testing.T) {
	st := &model.ScopeState{Items: items("A", "B", "C", "D", "E", "F", "G", "H", "I", "J")}
	l := BuildList(model.ScopeSecondary, st)
	l.Layout(60)

	vp := &viewport{height: 300}
	sch := &scheduler{}
	var commits []Plan
	e := New(Options{Viewport: vp, Scheduler: sch, Commit: func(p Plan) error {
		commits = append(commits, p)
		return nil
	}})
	require.NoError(t, e.Start(l, "A"))

	// Within 60 of the bottom edge.
	e.Move(250)
	require.Equal(t, 1, e.ScrollDirection())
	require.Equal(t, 1, sch.starts)
	require.Equal(t, DefaultInterval, sch.interval)

	e.Move(255)
	require.Equal(t, 1, sch.starts, "one interval per edge visit")

	sch.fire()
	sch.fire()
	require.Equal(t, float64(2*DefaultStep), vp.offset)

	// Leaving the margin stops it immediately.
	e.Move(150)
	require.Equal(t, 0, e.ScrollDirection())
	require.Equal(t, 1, sch.stops)

	e.Move(10)
	require.Equal(t, -1, e.ScrollDirection())
	require.Equal(t, 2, sch.starts)

	_, err := e.Drop()
	require.NoError(t, err)
	require.Equal(t, 2, sch.stops, "drop stops the interval")
	require.Len(t, commits, 1)

	// A tick that races the drop does nothing.
	offset := vp.offset
	e.tick()
	require.Equal(t, offset, vp.offset)
}

func TestDrag_CancelStopsAutoScroll(t *testing.T) {
	l := BuildList(model.ScopeSecondary, &model.ScopeState{Items: items("A", "B")})
	l.Layout(60)
	sch := &scheduler{}
	e := New(Options{Viewport: &viewport{height: 300}, Scheduler: sch})
	require.NoError(t, e.Start(l, "A"))
	e.Move(290)
	e.Cancel()
	require.Equal(t, 1, sch.stops)
	require.Equal(t, 0, e.ScrollDirection())
}
