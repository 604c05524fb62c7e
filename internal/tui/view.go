package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/drag"
)

func (m *appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch m.modal {
	case modalInput:
		title := ""
		if m.prompt != nil {
			title = m.prompt.title
		}
		return m.overlay(renderInputModal(m.width, title, m.input.View()))
	case modalConfirm:
		body := ""
		if m.prompt != nil {
			body = m.prompt.title
		}
		return m.overlay(renderConfirmModal(m.width, "Confirm", body, "Yes", "No", m.confirmFocus))
	case modalPicker:
		return m.overlay(m.picker.render(m.width, m.height))
	case modalHelp:
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Render(m.help.View())
		return m.overlay(box)
	}

	return strings.Join([]string{
		normalizePane(m.renderTabs(), m.width, 1),
		"",
		normalizePane(m.renderList(), m.width, m.vp.height),
		normalizePane(m.renderFooter(), m.width, 1),
	}, "\n")
}

func (m *appModel) overlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *appModel) renderTabs() string {
	var tabs []string
	for i, scope := range m.scopes {
		tabs = append(tabs, styleTab(i == m.tab).Render(scope.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *appModel) renderList() string {
	if len(m.rows) == 0 {
		return styleMuted().Render("  This menu has no items yet.")
	}
	dragged := m.engine.ItemID()
	end := m.vp.offset + m.vp.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lines := make([]string, 0, end-m.vp.offset)
	for i := m.vp.offset; i < end; i++ {
		r := m.rows[i]
		text := truncate(" "+rowText(&m.snap, r), m.width)
		switch {
		case r.node.Kind == drag.KindPlaceholder:
			text = stylePlaceholder().Render(text)
		case dragged != "" && r.node.Kind == drag.KindItem && r.node.ID == dragged:
			text = styleMuted().Render(text)
		case i == m.cursor && dragged == "":
			text = styleSelected().Width(m.width).Render(text)
		case r.node.Kind == drag.KindCategory:
			text = styleCategory().Render(text)
		case r.node.Kind == drag.KindItem && m.hidden(r.node.ID):
			text = styleMuted().Render(text)
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) hidden(itemID string) bool {
	it, ok := m.snap.FindItem(itemID)
	return ok && it.Hidden
}

func (m *appModel) renderFooter() string {
	if m.toast != nil {
		st := lipgloss.NewStyle()
		switch m.toast.level {
		case customize.LevelWarning:
			st = st.Foreground(colorWarning)
		case customize.LevelSuccess:
			st = st.Foreground(colorSuccess)
		}
		return st.Render(m.toast.text)
	}
	switch {
	case m.engine.Dragging():
		return styleMuted().Render("release to drop   esc: cancel")
	case m.busy:
		return styleMuted().Render("working…")
	}
	return styleMuted().Render("space: hide/show   r: rename   n: new category   ?: help   q: quit")
}
