package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/logging"
	"menu-customizer/internal/model"
	"menu-customizer/internal/store"
)

const testHost = `<html><body>
<div id="options"><div class="options-content"><a id="A"><span data-i18n="A">A</span></a><a id="B"><span data-i18n="B">B</span></a><a id="C"><span data-i18n="C">C</span></a></div></div>
<div id="extensionsMenu"><div id="X" class="list-group-item"><span>X</span></div><div id="Y" class="list-group-item"><span>Y</span></div></div>
</body></html>`

// newTestModel builds an editor over a chat menu of A, B and a "Tools" category
// holding C: rows are [Tools, C, A, B].
func newTestModel(t *testing.T, p dialog.Prompter) (*appModel, *customize.Session) {
	t.Helper()
	doc, err := hostdoc.ParseString(testHost)
	if err != nil {
		t.Fatalf("parse host: %v", err)
	}
	cat := "tools"
	st := store.NewModel(&model.Settings{
		Version: model.SettingsVersion,
		PrimaryMenu: model.ScopeState{
			Items: []model.Item{
				{ID: "A", Name: "A", Order: model.IntPtr(1)},
				{ID: "B", Name: "B", Order: model.IntPtr(2)},
				{ID: "C", Name: "C", Order: model.IntPtr(0), CategoryID: &cat},
			},
			Categories: []model.Category{{ID: cat, Name: "Tools", Order: model.IntPtr(0), Expanded: model.BoolPtr(true)}},
		},
		SecondaryMenu: model.ScopeState{
			Items: []model.Item{
				{ID: "X", Name: "X", Order: model.IntPtr(0)},
				{ID: "Y", Name: "Y", Order: model.IntPtr(1)},
			},
			Categories: []model.Category{},
		},
	})
	s := customize.New(customize.Options{
		Model:    st,
		Host:     customize.NewHost("", doc),
		Prompter: p,
		Notifier: customize.NotifierFunc(func(customize.Level, string) {}),
		Logger:   logging.Discard(),
	})
	m := newAppModel(context.Background(), s, Options{UIState: &store.UIState{Version: 1}})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return m, s
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends a key and runs the session operation it started, if any.
func press(t *testing.T, m *appModel, k string) {
	t.Helper()
	_, cmd := m.Update(keyMsg(k))
	if cmd != nil && m.busy {
		m.Update(cmd())
	}
}

func keys(m *appModel) []string {
	var out []string
	for _, r := range m.rows {
		out = append(out, rowKey(r.node))
	}
	return out
}

func TestAppModel_RowsFollowCategoryLayout(t *testing.T) {
	m, _ := newTestModel(t, nil)
	got := strings.Join(keys(m), ",")
	want := "category:tools,item:C,item:A,item:B"
	if got != want {
		t.Fatalf("rows = %s, want %s", got, want)
	}
}

func TestAppModel_SpaceTogglesHidden(t *testing.T) {
	m, s := newTestModel(t, nil)
	press(t, m, "j")
	press(t, m, "j") // A
	if k := m.selectedKey(); k != "item:A" {
		t.Fatalf("cursor on %s, want item:A", k)
	}
	press(t, m, " ")

	snap, _ := s.Snapshot(model.ScopePrimary)
	it, _ := snap.FindItem("A")
	if !it.Hidden {
		t.Fatalf("expected A hidden")
	}
	if k := m.selectedKey(); k != "item:A" {
		t.Fatalf("cursor moved to %s after toggle", k)
	}

	press(t, m, " ")
	snap, _ = s.Snapshot(model.ScopePrimary)
	it, _ = snap.FindItem("A")
	if it.Hidden {
		t.Fatalf("expected A shown again")
	}
}

func TestAppModel_EnterCollapsesCategory(t *testing.T) {
	m, s := newTestModel(t, nil)
	press(t, m, "enter")

	snap, _ := s.Snapshot(model.ScopePrimary)
	c, _ := snap.FindCategory("tools")
	if c.IsExpanded() {
		t.Fatalf("expected category collapsed")
	}
	if got := strings.Join(keys(m), ","); got != "category:tools,item:A,item:B" {
		t.Fatalf("rows after collapse = %s", got)
	}
}

func TestAppModel_RenameUsesPrompter(t *testing.T) {
	p := &dialog.Script{Inputs: []dialog.InputResult{{Value: "Alpha"}}}
	m, s := newTestModel(t, p)
	press(t, m, "j")
	press(t, m, "j")
	press(t, m, "r")

	snap, _ := s.Snapshot(model.ScopePrimary)
	it, _ := snap.FindItem("A")
	if it.DisplayName() != "Alpha" {
		t.Fatalf("display name = %q, want Alpha", it.DisplayName())
	}
	if !strings.Contains(rowText(&m.snap, m.rows[2]), "Alpha (A)") {
		t.Fatalf("row text = %q", rowText(&m.snap, m.rows[2]))
	}
}

func TestAppModel_CategoryKeysNeedCategoryRow(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(t, m, "j") // C, an item
	_, cmd := m.Update(keyMsg("d"))
	if m.busy {
		t.Fatalf("delete started on an item row")
	}
	if cmd == nil || m.toast == nil || !strings.Contains(m.toast.text, "category") {
		t.Fatalf("expected a hint toast, got %+v", m.toast)
	}
}

func TestAppModel_UncategorizeAndMove(t *testing.T) {
	m, s := newTestModel(t, nil)
	press(t, m, "j") // C
	press(t, m, "x")
	// C keeps its order, which sorts it first among the top-level items.
	if got := strings.Join(keys(m), ","); got != "category:tools,item:C,item:A,item:B" {
		t.Fatalf("rows after uncategorize = %s", got)
	}
	if k := m.selectedKey(); k != "item:C" {
		t.Fatalf("cursor on %s, want item:C", k)
	}

	press(t, m, "J")
	if got := strings.Join(keys(m), ","); got != "category:tools,item:A,item:C,item:B" {
		t.Fatalf("rows after move = %s", got)
	}
	snap, _ := s.Snapshot(model.ScopePrimary)
	c, _ := snap.FindItem("C")
	if c.Order == nil || *c.Order != 1 {
		t.Fatalf("C order = %v, want 1", c.Order)
	}

	// The top of the list stays put.
	m.selectKey("item:A")
	press(t, m, "K")
	if m.busy {
		t.Fatalf("move past the top started an operation")
	}
	if got := strings.Join(keys(m), ","); got != "category:tools,item:A,item:C,item:B" {
		t.Fatalf("rows after no-op move = %s", got)
	}
}

func TestAppModel_AddItemsPicker(t *testing.T) {
	m, s := newTestModel(t, nil)
	press(t, m, "a")
	if m.modal != modalPicker || m.picker == nil {
		t.Fatalf("expected picker, modal=%v", m.modal)
	}
	if len(m.picker.items) != 2 {
		t.Fatalf("candidates = %d, want 2", len(m.picker.items))
	}
	press(t, m, " ") // check A
	press(t, m, "enter")

	snap, _ := s.Snapshot(model.ScopePrimary)
	a, _ := snap.FindItem("A")
	if a.CategoryID == nil || *a.CategoryID != "tools" {
		t.Fatalf("A category = %v, want tools", a.CategoryID)
	}
	if m.modal != modalNone {
		t.Fatalf("picker still open")
	}
}

func TestAppModel_TabSwitchesScopeAndRemembersSelection(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(t, m, "j")
	press(t, m, "tab")
	if m.scope() != model.ScopeSecondary {
		t.Fatalf("scope = %s", m.scope())
	}
	if got := strings.Join(keys(m), ","); got != "item:X,item:Y" {
		t.Fatalf("secondary rows = %s", got)
	}
	press(t, m, "tab")
	if k := m.selectedKey(); k != "item:C" {
		t.Fatalf("selection after switching back = %s, want item:C", k)
	}
	if m.ui.Selected[string(model.ScopePrimary)] != "item:C" {
		t.Fatalf("ui state = %+v", m.ui.Selected)
	}
}

func TestAppModel_PromptModalAnswersBridge(t *testing.T) {
	m, _ := newTestModel(t, nil)
	reply := make(chan promptReply, 1)
	m.Update(promptMsg{kind: promptInput, title: "Rename", initial: "old", reply: reply})
	if m.modal != modalInput || m.input.Value() != "old" {
		t.Fatalf("modal=%v value=%q", m.modal, m.input.Value())
	}
	m.Update(keyMsg("!"))
	m.Update(keyMsg("enter"))
	r := <-reply
	if r.input.Cancelled || r.input.Value != "old!" {
		t.Fatalf("reply = %+v", r.input)
	}

	m.Update(promptMsg{kind: promptConfirm, title: "Sure?", reply: reply})
	if m.modal != modalConfirm {
		t.Fatalf("expected confirm modal")
	}
	m.Update(keyMsg("esc"))
	if r := <-reply; r.answer != dialog.Cancelled {
		t.Fatalf("answer = %v, want cancelled", r.answer)
	}
}

func TestAppModel_MouseDragReorders(t *testing.T) {
	m, s := newTestModel(t, nil)
	// Rows on screen: 2 Tools, 3 C, 4 A, 5 B. Drag B up onto A.
	m.Update(tea.MouseMsg{X: 4, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 4, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if !m.engine.Dragging() || !s.Dragging() {
		t.Fatalf("expected a drag in progress")
	}
	m.Update(tea.MouseMsg{X: 4, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.engine.Dragging() || s.Dragging() {
		t.Fatalf("drag still active after release")
	}
	if got := strings.Join(keys(m), ","); got != "category:tools,item:C,item:B,item:A" {
		t.Fatalf("rows after drop = %s", got)
	}
	if k := m.selectedKey(); k != "item:B" {
		t.Fatalf("cursor on %s, want the dropped item", k)
	}
}

func TestAppModel_EscCancelsDrag(t *testing.T) {
	m, s := newTestModel(t, nil)
	m.Update(tea.MouseMsg{Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{Y: 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if m.engine.PlaceholderNode() == nil {
		t.Fatalf("expected a placeholder")
	}
	m.Update(keyMsg("esc"))
	if m.engine.Dragging() || s.Dragging() {
		t.Fatalf("drag not cancelled")
	}
	if got := strings.Join(keys(m), ","); got != "category:tools,item:C,item:A,item:B" {
		t.Fatalf("rows after cancel = %s", got)
	}
}

func TestAppModel_RefreshDeferredDuringDrag(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.MouseMsg{Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	list := m.list
	m.Update(refreshMsg{})
	if m.list != list || !m.stale {
		t.Fatalf("refresh rebuilt the list mid-drag")
	}
	m.cancelDrag()
	if m.stale {
		t.Fatalf("stale flag survived the drag")
	}
}

func TestAppModel_ViewRendersTabsAndRows(t *testing.T) {
	m, _ := newTestModel(t, nil)
	out := m.View()
	for _, want := range []string{"Chat menu", "Extensions menu", "Tools", "[x] A"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}
