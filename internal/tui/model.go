package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/drag"
	"menu-customizer/internal/logging"
	"menu-customizer/internal/model"
	"menu-customizer/internal/store"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalInput
	modalConfirm
	modalPicker
	modalHelp
)

// listTop is the first screen row of the list: tabs, then a blank line.
const listTop = 2

const toastTTL = 3 * time.Second

// opDoneMsg ends a session operation started by run.
type opDoneMsg struct{ err error }

type clearToastMsg struct{ seq int }

// pendingPress is a mouse press on an item that has not moved far enough to start a drag.
type pendingPress struct {
	itemID string
	y      int
}

type appModel struct {
	ctx     context.Context
	session *customize.Session
	store   store.Store
	ui      *store.UIState
	keys    keyMap

	width  int
	height int

	scopes []model.Scope
	tab    int
	snap   model.ScopeState
	list   *drag.List
	rows   []row
	cursor int

	vp     *rowViewport
	sched  *tickScheduler
	engine *drag.Engine
	press  *pendingPress
	lastY  int
	// stale is set when a refresh arrived mid-drag.
	stale bool

	busy         bool
	modal        modalKind
	prompt       *promptMsg
	input        textinput.Model
	confirmFocus confirmModalFocus
	picker       *picker
	help         viewport.Model

	toast    *toastMsg
	toastSeq int
}

func newAppModel(ctx context.Context, s *customize.Session, opts Options) *appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	margin := opts.ScrollMargin
	if margin <= 0 {
		margin = defaultScrollMargin
	}
	m := &appModel{
		ctx:     ctx,
		session: s,
		store:   opts.Store,
		ui:      opts.UIState,
		keys:    defaultKeyMap(),
		scopes:  model.AllScopes(),
		vp:      &rowViewport{},
		sched:   &tickScheduler{},
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m.engine = drag.New(drag.Options{
		Margin:    float64(margin * rowUnits),
		Step:      rowUnits,
		Interval:  scrollInterval,
		Viewport:  m.vp,
		Scheduler: m.sched,
		Commit:    s.CommitDrag,
		Recorder:  opts.Recorder,
		Logger:    logger,
	})

	m.input = textinput.New()
	m.input.CharLimit = 200
	m.input.Width = 40
	m.help = viewport.New(0, 0)

	if m.ui != nil {
		for i, scope := range m.scopes {
			if string(scope) == m.ui.Tab {
				m.tab = i
			}
		}
	}
	m.reload()
	if m.ui != nil {
		m.selectKey(m.ui.Selected[string(m.scope())])
	}
	return m
}

func (m *appModel) scope() model.Scope { return m.scopes[m.tab] }

// reload rebuilds the rows from the session, keeping the cursor on the same node.
func (m *appModel) reload() {
	key := m.selectedKey()
	snap, err := m.session.Snapshot(m.scope())
	if err != nil {
		m.setToast(customize.LevelWarning, err.Error())
		return
	}
	m.snap = snap
	m.list = drag.BuildList(m.scope(), &m.snap)
	m.list.Layout(rowUnits)
	m.relayout()
	if key != "" {
		m.selectKey(key)
	}
	m.clampCursor()
}

// relayout refreshes the rows after the list changed shape (placeholder moves).
func (m *appModel) relayout() {
	m.rows = flatten(m.list)
	m.vp.total = len(m.rows)
	m.vp.clamp()
}

func (m *appModel) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *appModel) selectedKey() string {
	r, ok := m.selected()
	if !ok {
		return ""
	}
	return rowKey(r.node)
}

func (m *appModel) selectKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range m.rows {
		if rowKey(r.node) == key {
			m.cursor = i
			m.vp.reveal(i)
			return true
		}
	}
	return false
}

func (m *appModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.vp.reveal(m.cursor)
}

// moveCursor steps over placeholder rows.
func (m *appModel) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if m.rows[i].node.Kind != drag.KindPlaceholder {
			m.cursor = i
			m.vp.reveal(i)
			return
		}
	}
}

func (m *appModel) switchTab(delta int) {
	m.rememberSelection()
	m.tab = (m.tab + delta + len(m.scopes)) % len(m.scopes)
	m.rows = nil
	m.cursor = 0
	m.vp.offset = 0
	m.reload()
	if m.ui != nil {
		m.selectKey(m.ui.Selected[string(m.scope())])
	}
	// A drag follows the pointer into the other list, where it can only be cancelled.
	m.engine.Retarget(m.list)
}

func (m *appModel) rememberSelection() {
	if m.ui == nil {
		return
	}
	if m.ui.Selected == nil {
		m.ui.Selected = map[string]string{}
	}
	m.ui.Tab = string(m.scope())
	if key := m.selectedKey(); key != "" {
		m.ui.Selected[string(m.scope())] = key
	}
}

func (m *appModel) saveUIState() {
	if m.ui == nil {
		return
	}
	m.rememberSelection()
	_ = m.store.SaveUIState(m.ui)
}

// run executes a session operation off the event loop; it may block on a prompt.
func (m *appModel) run(fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: fn(ctx)}
	}
}

func (m *appModel) setToast(level customize.Level, text string) tea.Cmd {
	m.toastSeq++
	m.toast = &toastMsg{level: level, text: text}
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}

func (m *appModel) listHeight() int {
	h := m.height - listTop - 1
	if h < 1 {
		h = 1
	}
	return h
}
