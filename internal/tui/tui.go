// Package tui is the interactive menu editor: one tab per menu, keyboard editing and
// mouse drag-and-drop, with every change going through the customize session.
package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/drag"
	"menu-customizer/internal/store"
)

type Options struct {
	// Bridge must be the session's prompter and notifier.
	Bridge  *Bridge
	Store   store.Store
	UIState *store.UIState
	// ScrollMargin is the auto-scroll zone in rows at each edge of the list.
	ScrollMargin int
	Recorder     drag.Recorder
	Logger       *slog.Logger
}

func Run(ctx context.Context, s *customize.Session, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newAppModel(ctx, s, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if opts.Bridge != nil {
		opts.Bridge.attach(p.Send)
		defer opts.Bridge.detach()
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
