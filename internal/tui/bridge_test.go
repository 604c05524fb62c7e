package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"menu-customizer/internal/customize"
	"menu-customizer/internal/dialog"
)

func TestBridge_PromptsFailWhenDetached(t *testing.T) {
	b := NewBridge()
	res, err := b.Input(context.Background(), "Name", "")
	if !errors.Is(err, ErrNotRunning) || !res.Cancelled {
		t.Fatalf("Input = %+v, %v", res, err)
	}
	ans, err := b.Confirm(context.Background(), "Sure?")
	if !errors.Is(err, ErrNotRunning) || ans != dialog.Cancelled {
		t.Fatalf("Confirm = %v, %v", ans, err)
	}
	// Dropped, not blocked.
	b.Notify(customize.LevelInfo, "hello")
	b.Refreshed()
}

func TestBridge_InputRoundTrip(t *testing.T) {
	b := NewBridge()
	msgs := make(chan tea.Msg, 4)
	b.attach(func(msg tea.Msg) { msgs <- msg })

	done := make(chan dialog.InputResult, 1)
	go func() {
		res, err := b.Input(context.Background(), "Rename", "old")
		if err != nil {
			t.Errorf("Input: %v", err)
		}
		done <- res
	}()

	var p promptMsg
	select {
	case msg := <-msgs:
		var ok bool
		if p, ok = msg.(promptMsg); !ok {
			t.Fatalf("got %T, want promptMsg", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no prompt sent")
	}
	if p.kind != promptInput || p.title != "Rename" || p.initial != "old" {
		t.Fatalf("prompt = %+v", p)
	}
	p.reply <- promptReply{input: dialog.InputResult{Value: "new"}}

	select {
	case res := <-done:
		if v, ok := res.Text(); !ok || v != "new" {
			t.Fatalf("result = %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Input did not return")
	}
}

func TestBridge_ConfirmHonorsContext(t *testing.T) {
	b := NewBridge()
	b.attach(func(tea.Msg) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ans, err := b.Confirm(ctx, "Sure?")
	if !errors.Is(err, context.Canceled) || ans != dialog.Cancelled {
		t.Fatalf("Confirm = %v, %v", ans, err)
	}
}

func TestBridge_NotifyAndRefreshedPost(t *testing.T) {
	b := NewBridge()
	msgs := make(chan tea.Msg, 4)
	b.attach(func(msg tea.Msg) { msgs <- msg })

	b.Notify(customize.LevelSuccess, "Saved.")
	b.Refreshed()

	var gotToast, gotRefresh bool
	for i := 0; i < 2; i++ {
		select {
		case msg := <-msgs:
			switch msg := msg.(type) {
			case toastMsg:
				gotToast = msg.text == "Saved." && msg.level == customize.LevelSuccess
			case refreshMsg:
				gotRefresh = true
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("missing message")
		}
	}
	if !gotToast || !gotRefresh {
		t.Fatalf("toast=%v refresh=%v", gotToast, gotRefresh)
	}
}
