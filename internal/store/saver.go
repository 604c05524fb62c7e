package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"menu-customizer/internal/model"
)

// DefaultSaveDebounce coalesces bursts of edits (drag commits, toggles) into one write.
const DefaultSaveDebounce = 300 * time.Millisecond

// Saver is the debounced persist operation. Notify is fire-and-forget; the write happens
// once the debounce window passes without another Notify.
type Saver struct {
	store    Store
	debounce time.Duration
	logger   *slog.Logger

	// snapshot is called when a write is due; it must return a copy that is safe to
	// marshal off the caller's goroutine.
	snapshot func() *model.Settings

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	// idle is closed when the in-flight write finishes.
	idle    chan struct{}
	saves   int
	lastErr error
}

type SaverOpts struct {
	Store    Store
	Debounce time.Duration
	Logger   *slog.Logger
	Snapshot func() *model.Settings
}

func NewSaver(opts SaverOpts) *Saver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{
		store:    opts.Store,
		debounce: debounce,
		logger:   logger,
		snapshot: opts.Snapshot,
	}
}

func (d *Saver) Notify() {
	if d == nil {
		return
	}

	d.mu.Lock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		d.mu.Unlock()
		return
	}
	d.timer.Reset(d.debounce)
	d.mu.Unlock()
}

func (d *Saver) onTimer() {
	d.mu.Lock()
	if d.running {
		// A write is in flight; try again after it to pick up pending changes.
		if d.timer != nil {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.begin()
	d.mu.Unlock()

	d.finish(d.write(context.Background()))
}

// begin claims the write slot. Callers hold d.mu.
func (d *Saver) begin() {
	d.pending = false
	d.running = true
	d.idle = make(chan struct{})
}

func (d *Saver) finish(err error) {
	d.mu.Lock()
	d.running = false
	d.lastErr = err
	close(d.idle)
	if d.pending && d.timer != nil {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}

func (d *Saver) write(ctx context.Context) error {
	if d.snapshot == nil {
		return nil
	}
	st := d.snapshot()
	if st == nil {
		return nil
	}
	if err := d.store.SaveSettings(ctx, st); err != nil {
		d.logger.Error("save settings failed", "dir", d.store.Dir, "error", err)
		return err
	}
	d.mu.Lock()
	d.saves++
	d.mu.Unlock()
	d.logger.Debug("settings saved", "dir", d.store.Dir)
	return nil
}

// Flush cancels any pending timer, waits for an in-flight write, then writes
// immediately when there are unsaved changes.
func (d *Saver) Flush(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	for d.running {
		idle := d.idle
		d.mu.Unlock()
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
		d.mu.Lock()
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.pending {
		d.mu.Unlock()
		return nil
	}
	d.begin()
	d.mu.Unlock()

	err := d.write(ctx)
	d.finish(err)
	return err
}

// Saves reports how many writes completed; used by tests to observe coalescing.
func (d *Saver) Saves() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saves
}

func (d *Saver) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}
