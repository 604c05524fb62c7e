// Package reconcile merges discovery results into the stored customization model.
package reconcile

import (
	"log/slog"

	"menu-customizer/internal/discovery"
	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
)

// Delta lists the item ids a reconcile pass added and removed.
type Delta struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

func (d Delta) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// Reconcile updates st in place so its items are exactly the discovered set.
//
// New items are appended uncustomized after every existing item. Items missing from the
// discovery result are dropped together with their customization, whatever category
// they were in. Surviving items are left untouched, so a second pass over the same
// result changes nothing.
func Reconcile(st *model.ScopeState, found []model.DiscoveredItem) Delta {
	var d Delta
	if st == nil {
		return d
	}

	present := make(map[string]bool, len(found))
	for _, f := range found {
		present[f.ID] = true
	}

	for _, f := range found {
		if _, ok := st.FindItem(f.ID); ok {
			continue
		}
		st.Items = append(st.Items, model.Item{
			ID:    f.ID,
			Name:  f.Name,
			Icon:  f.Icon,
			Order: model.IntPtr(order.NextItemOrder(st)),
		})
		d.Added = append(d.Added, f.ID)
	}

	kept := st.Items[:0]
	for _, it := range st.Items {
		if !present[it.ID] {
			d.Removed = append(d.Removed, it.ID)
			continue
		}
		kept = append(kept, it)
	}
	st.Items = kept
	if st.Categories == nil {
		st.Categories = []model.Category{}
	}
	return d
}

// Store is the slice of the model store a Reconciler needs.
type Store interface {
	Lock()
	Unlock()
	Get(scope model.Scope) *model.ScopeState
	Persist()
}

// Recorder observes reconcile outcomes (metrics).
type Recorder interface {
	Reconciled(scope model.Scope, d Delta)
}

// Reconciler runs discovery for the scopes that have a scanner and merges the result.
// Scopes without a scanner are static and never change here.
type Reconciler struct {
	Store    Store
	Scanners map[model.Scope]discovery.Scanner
	Logger   *slog.Logger
	Recorder Recorder
}

// Reconcile scans scope and merges the result. The store is persisted only when
// something changed.
func (r *Reconciler) Reconcile(scope model.Scope) Delta {
	scanner := r.Scanners[scope]
	if scanner == nil {
		return Delta{}
	}
	found := scanner.Scan()

	r.Store.Lock()
	d := Reconcile(r.Store.Get(scope), found)
	r.Store.Unlock()

	if !d.Empty() {
		r.Store.Persist()
		r.logger().Info("reconciled", "scope", scope, "added", len(d.Added), "removed", len(d.Removed))
	}
	if r.Recorder != nil {
		r.Recorder.Reconciled(scope, d)
	}
	return d
}

func (r *Reconciler) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
