package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
)

// ErrNotRunning is returned by prompts issued while no editor is on screen.
var ErrNotRunning = errors.New("editor is not running")

// Bridge connects the session to the running editor. It is created before the session
// (which takes it as prompter and notifier) and attached once the program starts.
//
// Every send runs on its own goroutine: the session may notify while holding its lock,
// and the event loop may be waiting on that lock.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewBridge() *Bridge { return &Bridge{} }

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *Bridge) detach() { b.attach(nil) }

func (b *Bridge) post(msg tea.Msg) bool {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return false
	}
	go send(msg)
	return true
}

type promptKind int

const (
	promptInput promptKind = iota
	promptConfirm
)

// promptMsg asks the editor to show a modal. The editor answers exactly once on reply.
type promptMsg struct {
	kind    promptKind
	title   string
	initial string
	reply   chan promptReply
}

type promptReply struct {
	input  dialog.InputResult
	answer dialog.Answer
}

type toastMsg struct {
	level customize.Level
	text  string
}

// refreshMsg reports that the host rebuilt its menus and the session re-applied.
type refreshMsg struct{}

func (b *Bridge) ask(ctx context.Context, p promptMsg) (promptReply, error) {
	p.reply = make(chan promptReply, 1)
	if !b.post(p) {
		return promptReply{}, ErrNotRunning
	}
	select {
	case r := <-p.reply:
		return r, nil
	case <-ctx.Done():
		return promptReply{}, ctx.Err()
	}
}

func (b *Bridge) Input(ctx context.Context, title, initial string) (dialog.InputResult, error) {
	r, err := b.ask(ctx, promptMsg{kind: promptInput, title: title, initial: initial})
	if err != nil {
		return dialog.InputResult{Cancelled: true}, err
	}
	return r.input, nil
}

func (b *Bridge) Confirm(ctx context.Context, message string) (dialog.Answer, error) {
	r, err := b.ask(ctx, promptMsg{kind: promptConfirm, title: message})
	if err != nil {
		return dialog.Cancelled, err
	}
	return r.answer, nil
}

// Notify shows a toast. Messages sent while no editor runs are dropped.
func (b *Bridge) Notify(level customize.Level, msg string) {
	b.post(toastMsg{level: level, text: msg})
}

// Refreshed is the session's post-reapply hook.
func (b *Bridge) Refreshed() {
	b.post(refreshMsg{})
}
