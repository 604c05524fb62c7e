package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"menu-customizer/internal/model"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

const (
	modalMaxWidth = 64
	modalMinWidth = 24
)

func modalWidth(width int) int {
	w := width - 4
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < modalMinWidth {
		w = modalMinWidth
	}
	return w
}

// modalBodyWidth is the usable width inside the box's padding.
func modalBodyWidth(width int) int {
	return modalWidth(width) - 4
}

func renderModalBox(width int, title string, content string) string {
	w := modalWidth(width)
	header := lipgloss.NewStyle().
		Width(w-2).
		Padding(0, 1).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Render(truncate(title, w-4))
	body := lipgloss.NewStyle().
		Width(w-2).
		Padding(1, 1).
		Foreground(colorSurfaceFg).
		Render(content)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// The input must stay one visual line; a wrap would look like inserted newlines.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so the cut does not bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

func renderInputModal(width int, title string, inputView string) string {
	bodyW := modalBodyWidth(width)
	content := strings.Join([]string{
		renderInputLine(bodyW, inputView),
		"",
		styleMuted().Width(bodyW).Render("enter: save   esc: cancel"),
	}, "\n")
	return renderModalBox(width, title, content)
}

// picker is the "add items to category" checklist.
type picker struct {
	categoryID string
	title      string
	items      []model.Item
	checked    map[string]bool
	cursor     int
}

func newPicker(categoryID, categoryName string, items []model.Item) *picker {
	return &picker{
		categoryID: categoryID,
		title:      fmt.Sprintf("Add items to %q", categoryName),
		items:      items,
		checked:    map[string]bool{},
	}
}

func (p *picker) move(delta int) {
	if len(p.items) == 0 {
		return
	}
	p.cursor = (p.cursor + delta + len(p.items)) % len(p.items)
}

func (p *picker) toggle() {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return
	}
	id := p.items[p.cursor].ID
	p.checked[id] = !p.checked[id]
}

// selected lists the checked ids in list order.
func (p *picker) selected() []string {
	var out []string
	for _, it := range p.items {
		if p.checked[it.ID] {
			out = append(out, it.ID)
		}
	}
	return out
}

func (p *picker) render(width, height int) string {
	bodyW := modalBodyWidth(width)
	maxRows := height - 10
	if maxRows < 3 {
		maxRows = 3
	}
	start := 0
	if p.cursor >= maxRows {
		start = p.cursor - maxRows + 1
	}

	var lines []string
	if len(p.items) == 0 {
		lines = append(lines, styleMuted().Render("Every item is already in this category."))
	}
	for i := start; i < len(p.items) && i < start+maxRows; i++ {
		it := p.items[i]
		box := "[ ]"
		if p.checked[it.ID] {
			box = "[x]"
		}
		ln := truncate(box+" "+it.DisplayName(), bodyW)
		if i == p.cursor {
			ln = styleSelected().Width(bodyW).Render(ln)
		}
		lines = append(lines, ln)
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("space: check   enter: add   esc: cancel"))
	return renderModalBox(width, p.title, strings.Join(lines, "\n"))
}
