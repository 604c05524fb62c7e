package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
	"menu-customizer/internal/docs"
	"menu-customizer/internal/drag"
	"menu-customizer/internal/model"
)

func (m *appModel) Init() tea.Cmd { return nil }

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.height = m.listHeight()
		m.vp.clamp()
		m.vp.reveal(m.cursor)
		m.input.Width = modalBodyWidth(m.width) - 4
		m.help.Width = m.width - 4
		m.help.Height = m.height - 4
		return m, nil

	case promptMsg:
		return m, m.openPrompt(msg)

	case toastMsg:
		return m, m.setToast(msg.level, msg.text)

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case refreshMsg:
		if m.engine.Dragging() {
			m.stale = true
			return m, nil
		}
		m.reload()
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.reload()
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			return m, m.setToast(customize.LevelWarning, msg.err.Error())
		}
		return m, nil

	case scrollTickMsg:
		cmd := m.sched.handle(msg)
		m.relayout()
		return m, cmd

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch m.modal {
	case modalInput:
		return m.updateInputModal(msg)
	case modalConfirm:
		return m.updateConfirmModal(msg)
	case modalPicker:
		return m.updatePicker(msg)
	case modalHelp:
		return m.updateHelp(msg)
	}

	if m.engine.Dragging() {
		switch {
		case msg.Type == tea.KeyEsc:
			m.cancelDrag()
		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return nil
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return nil
	}

	if m.busy {
		return nil
	}
	s := m.session
	switch {
	case key.Matches(msg, m.keys.ToggleHidden):
		hidden := false
		if r, ok := m.selected(); ok && r.node.Kind == drag.KindItem {
			if it, ok := m.snap.FindItem(r.node.ID); ok {
				hidden = it.Hidden
			}
		}
		return m.itemAction(func(ctx context.Context, scope model.Scope, id string) error {
			return s.ToggleHidden(scope, id, !hidden)
		})
	case key.Matches(msg, m.keys.Rename):
		return m.itemAction(func(ctx context.Context, scope model.Scope, id string) error {
			_, err := s.EditItemName(ctx, scope, id)
			return err
		})
	case key.Matches(msg, m.keys.RestoreName):
		return m.itemAction(func(ctx context.Context, scope model.Scope, id string) error {
			_, err := s.RestoreItemName(scope, id)
			return err
		})
	case key.Matches(msg, m.keys.Uncategorize):
		return m.itemAction(func(ctx context.Context, scope model.Scope, id string) error {
			_, err := s.RemoveFromCategory(scope, id)
			return err
		})
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selected(); ok && r.node.Kind == drag.KindCategory {
			return m.categoryAction(func(ctx context.Context, scope model.Scope, id string) error {
				return s.ToggleCategory(scope, id)
			})
		}
		return nil
	case key.Matches(msg, m.keys.NewCategory):
		scope := m.scope()
		return m.run(func(ctx context.Context) error {
			_, _, err := s.AddCategory(ctx, scope)
			return err
		})
	case key.Matches(msg, m.keys.RenameCategory):
		return m.categoryAction(func(ctx context.Context, scope model.Scope, id string) error {
			_, err := s.EditCategoryName(ctx, scope, id)
			return err
		})
	case key.Matches(msg, m.keys.DeleteCategory):
		return m.categoryAction(func(ctx context.Context, scope model.Scope, id string) error {
			_, err := s.DeleteCategory(ctx, scope, id)
			return err
		})
	case key.Matches(msg, m.keys.AddItems):
		return m.openPicker()
	case key.Matches(msg, m.keys.MoveUp):
		return m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.moveSelected(1)
	case key.Matches(msg, m.keys.Reset):
		scope := m.scope()
		return m.run(func(ctx context.Context) error {
			_, err := s.ResetScope(ctx, scope)
			return err
		})
	}
	return nil
}

func (m *appModel) itemAction(fn func(ctx context.Context, scope model.Scope, id string) error) tea.Cmd {
	r, ok := m.selected()
	if !ok || r.node.Kind != drag.KindItem {
		return m.setToast(customize.LevelInfo, "Select an item first.")
	}
	scope, id := m.scope(), r.node.ID
	return m.run(func(ctx context.Context) error { return fn(ctx, scope, id) })
}

func (m *appModel) categoryAction(fn func(ctx context.Context, scope model.Scope, id string) error) tea.Cmd {
	r, ok := m.selected()
	if !ok || r.node.Kind != drag.KindCategory {
		return m.setToast(customize.LevelInfo, "Select a category first.")
	}
	scope, id := m.scope(), r.node.ID
	return m.run(func(ctx context.Context) error { return fn(ctx, scope, id) })
}

// moveSelected shifts the selected item or category one place within its container.
func (m *appModel) moveSelected(delta int) tea.Cmd {
	r, ok := m.selected()
	if !ok || r.node.Kind == drag.KindPlaceholder {
		return nil
	}
	pos := r.position() + delta
	if pos < 0 || pos >= r.count(r.node.Kind) {
		return nil
	}
	s, scope, id := m.session, m.scope(), r.node.ID
	if r.node.Kind == drag.KindCategory {
		return m.run(func(ctx context.Context) error { return s.MoveCategory(scope, id, pos) })
	}
	categoryID := r.parent.CategoryID
	return m.run(func(ctx context.Context) error { return s.MoveItem(scope, id, categoryID, pos) })
}

func (m *appModel) quit() tea.Cmd {
	if m.prompt != nil {
		m.answer(promptReply{input: dialog.InputResult{Cancelled: true}, answer: dialog.Cancelled})
	}
	if m.engine.Dragging() {
		m.engine.Cancel()
		m.session.EndDrag()
	}
	m.saveUIState()
	return tea.Quit
}

func (m *appModel) openPrompt(p promptMsg) tea.Cmd {
	if m.modal == modalHelp {
		m.modal = modalNone
	}
	if m.modal != modalNone || m.prompt != nil {
		// One prompt at a time; operations are serialized so this is a stray.
		p.reply <- promptReply{input: dialog.InputResult{Cancelled: true}, answer: dialog.Cancelled}
		return nil
	}
	m.prompt = &p
	switch p.kind {
	case promptConfirm:
		m.modal = modalConfirm
		m.confirmFocus = confirmFocusCancel
		return nil
	default:
		m.modal = modalInput
		m.input.SetValue(p.initial)
		m.input.CursorEnd()
		return m.input.Focus()
	}
}

func (m *appModel) answer(r promptReply) {
	if m.prompt != nil {
		m.prompt.reply <- r
	}
	m.prompt = nil
	m.modal = modalNone
	m.input.Blur()
}

func (m *appModel) updateInputModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.answer(promptReply{input: dialog.InputResult{Value: m.input.Value()}})
		return nil
	case tea.KeyEsc, tea.KeyCtrlG:
		m.answer(promptReply{input: dialog.InputResult{Cancelled: true}})
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *appModel) updateConfirmModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
	case "enter":
		a := dialog.Negative
		if m.confirmFocus == confirmFocusConfirm {
			a = dialog.Affirmative
		}
		m.answer(promptReply{answer: a})
	case "y":
		m.answer(promptReply{answer: dialog.Affirmative})
	case "n":
		m.answer(promptReply{answer: dialog.Negative})
	case "esc", "ctrl+g", "q":
		m.answer(promptReply{answer: dialog.Cancelled})
	}
	return nil
}

func (m *appModel) openPicker() tea.Cmd {
	r, ok := m.selected()
	if !ok || r.node.Kind != drag.KindCategory {
		return m.setToast(customize.LevelInfo, "Select a category first.")
	}
	items, err := m.session.Candidates(m.scope(), r.node.ID)
	if err != nil {
		return m.setToast(customize.LevelWarning, err.Error())
	}
	name := r.node.ID
	if c, ok := m.snap.FindCategory(r.node.ID); ok {
		name = c.Name
	}
	m.picker = newPicker(r.node.ID, name, items)
	m.modal = modalPicker
	return nil
}

func (m *appModel) updatePicker(msg tea.KeyMsg) tea.Cmd {
	p := m.picker
	switch msg.String() {
	case "up", "k":
		p.move(-1)
	case "down", "j":
		p.move(1)
	case " ", "space", "x":
		p.toggle()
	case "enter":
		ids := p.selected()
		m.picker = nil
		m.modal = modalNone
		s, scope, categoryID := m.session, m.scope(), p.categoryID
		return m.run(func(ctx context.Context) error {
			_, err := s.AddItemsToCategory(scope, categoryID, ids)
			return err
		})
	case "esc", "q", "ctrl+g":
		m.picker = nil
		m.modal = modalNone
	}
	return nil
}

func (m *appModel) openHelp() {
	md, ok := docs.Get("keys")
	if !ok {
		md = "No help available."
	}
	m.help.SetContent(RenderMarkdown(md, m.help.Width-2))
	m.help.GotoTop()
	m.modal = modalHelp
}

func (m *appModel) updateHelp(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?":
		m.modal = modalNone
		return nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return cmd
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.modal != modalNone {
		return nil
	}
	defer func() { m.lastY = msg.Y }()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !m.engine.Dragging() {
			m.vp.ScrollBy(-rowUnits)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if !m.engine.Dragging() {
			m.vp.ScrollBy(rowUnits)
		}
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		i, ok := m.rowAt(msg.Y)
		if !ok || m.rows[i].node.Kind == drag.KindPlaceholder {
			return nil
		}
		m.cursor = i
		if m.rows[i].node.Kind == drag.KindItem && !m.busy {
			m.press = &pendingPress{itemID: m.rows[i].node.ID, y: msg.Y}
		}
		return nil

	case tea.MouseActionMotion:
		if !m.engine.Dragging() {
			if m.press == nil || msg.Y == m.press.y {
				return nil
			}
			if err := m.startDrag(m.press.itemID); err != nil {
				m.press = nil
				return m.setToast(customize.LevelWarning, err.Error())
			}
		}
		m.dragTo(msg.Y)
		return m.sched.start()

	case tea.MouseActionRelease:
		m.press = nil
		if m.engine.Dragging() {
			return m.drop()
		}
	}
	return nil
}

// rowAt maps a screen row to a rendered row index.
func (m *appModel) rowAt(y int) (int, bool) {
	if y < listTop || y >= listTop+m.vp.height {
		return 0, false
	}
	i := y - listTop + m.vp.offset
	if i < 0 || i >= len(m.rows) {
		return 0, false
	}
	return i, true
}

func (m *appModel) startDrag(itemID string) error {
	m.session.BeginDrag()
	if err := m.engine.Start(m.list, itemID); err != nil {
		m.session.EndDrag()
		return fmt.Errorf("drag: %w", err)
	}
	m.relayout()
	return nil
}

// contentY converts a screen row to drag geometry. Moving down lands in the lower half
// of the row under the pointer, moving up in the upper half. The placeholder's own row
// has no geometry.
func (m *appModel) contentY(screenY int) (float64, bool) {
	half := 0.5
	if screenY > m.lastY {
		half = rowUnits - 0.5
	}
	i := screenY - listTop + m.vp.offset
	switch {
	case i < 0:
		return float64(i*rowUnits) + half, true
	case i >= len(m.rows):
		return m.list.Root.Box.Bottom + float64((i-len(m.rows))*rowUnits) + half, true
	}
	n := m.rows[i].node
	if n.Kind == drag.KindPlaceholder {
		return 0, false
	}
	return n.Box.Top + half, true
}

func (m *appModel) dragTo(screenY int) {
	y, ok := m.contentY(screenY)
	if !ok {
		return
	}
	m.engine.Move(y - m.vp.Offset())
	m.relayout()
}

func (m *appModel) drop() tea.Cmd {
	id := m.engine.ItemID()
	_, err := m.engine.Drop()
	m.session.EndDrag()
	m.stale = false
	m.reload()
	m.selectKey("item:" + id)
	if err != nil {
		return m.setToast(customize.LevelWarning, err.Error())
	}
	return nil
}

func (m *appModel) cancelDrag() {
	id := m.engine.ItemID()
	m.engine.Cancel()
	m.session.EndDrag()
	m.stale = false
	m.reload()
	m.selectKey("item:" + id)
}
