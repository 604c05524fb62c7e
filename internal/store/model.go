package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"menu-customizer/internal/model"
)

// Model is the in-memory model store for both scopes.
//
// Get hands out the live structures; callers mutate fields directly while holding the
// lock and then call Persist. UI events are serialized, so the lock only guards against
// the debounced writer reading a half-applied edit.
type Model struct {
	mu       sync.Mutex
	settings *model.Settings
	saver    *Saver
}

type ModelOpts struct {
	Store    Store
	Debounce time.Duration
	Logger   *slog.Logger
}

// OpenModel loads (or seeds) the settings and wires the debounced saver.
func OpenModel(ctx context.Context, opts ModelOpts) (*Model, error) {
	st, seeded, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m := NewModel(st)
	m.saver = NewSaver(SaverOpts{
		Store:    opts.Store,
		Debounce: opts.Debounce,
		Logger:   opts.Logger,
		Snapshot: m.Snapshot,
	})
	if seeded {
		m.Persist()
	}
	return m, nil
}

// NewModel wraps settings without persistence (Persist becomes a no-op until a saver is attached).
func NewModel(st *model.Settings) *Model {
	if st == nil {
		st = model.NewSettings()
	}
	return &Model{settings: st}
}

func (m *Model) Lock()   { m.mu.Lock() }
func (m *Model) Unlock() { m.mu.Unlock() }

// Get returns the live state for a scope. Hold the lock while reading or mutating it.
func (m *Model) Get(scope model.Scope) *model.ScopeState {
	return m.settings.Scope(scope)
}

// Replace swaps a scope's state wholesale (used by reset).
func (m *Model) Replace(scope model.Scope, st model.ScopeState) {
	if ss := m.settings.Scope(scope); ss != nil {
		*ss = st
	}
}

func (m *Model) Persist() {
	if m.saver != nil {
		m.saver.Notify()
	}
}

// Snapshot returns a deep copy of all settings, taken under the lock.
func (m *Model) Snapshot() *model.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &model.Settings{
		Version:       m.settings.Version,
		PrimaryMenu:   m.settings.PrimaryMenu.Clone(),
		SecondaryMenu: m.settings.SecondaryMenu.Clone(),
	}
}

// Flush writes pending changes now. Do not call while holding the lock.
func (m *Model) Flush(ctx context.Context) error {
	if m.saver == nil {
		return nil
	}
	return m.saver.Flush(ctx)
}

func (m *Model) Saver() *Saver { return m.saver }
