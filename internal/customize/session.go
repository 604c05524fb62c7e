// Package customize is the editing session: every user-facing operation on the two
// menus, run one at a time against the model store and re-applied to the host.
package customize

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"menu-customizer/internal/dialog"
	"menu-customizer/internal/discovery"
	"menu-customizer/internal/drag"
	"menu-customizer/internal/hostdoc"
	"menu-customizer/internal/metrics"
	"menu-customizer/internal/model"
	"menu-customizer/internal/order"
	"menu-customizer/internal/project"
	"menu-customizer/internal/reconcile"
	"menu-customizer/internal/store"
)

// DefaultSettleDelay gives the host time to finish rebuilding its menus after a
// lifecycle signal.
const DefaultSettleDelay = 500 * time.Millisecond

// AfterFunc schedules fn once after d; stop cancels it. time.AfterFunc in production.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

type Options struct {
	Model    *store.Model
	Host     *Host
	Prompter dialog.Prompter
	Notifier Notifier
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	SettleDelay time.Duration
	After       AfterFunc

	// WriteHost saves the host document after every apply.
	WriteHost bool

	// Refreshed runs after a host change has been re-applied, outside the session lock.
	Refreshed func()
}

type Session struct {
	mu sync.Mutex

	model      *store.Model
	host       *Host
	prompter   dialog.Prompter
	notifier   Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	reconciler *reconcile.Reconciler
	projector  *project.Projector

	settle    time.Duration
	after     AfterFunc
	writeHost bool
	refreshed func()

	dragging   bool
	stopSettle func() bool
	closed     bool
}

func New(opts Options) *Session {
	s := &Session{
		model:     opts.Model,
		host:      opts.Host,
		prompter:  opts.Prompter,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		settle:    opts.SettleDelay,
		after:     opts.After,
		writeHost: opts.WriteHost,
		refreshed: opts.Refreshed,
	}
	if s.model == nil {
		s.model = store.NewModel(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	if s.prompter == nil {
		s.prompter = dialog.Fixed{Cancel: true}
	}
	if s.settle <= 0 {
		s.settle = DefaultSettleDelay
	}
	if s.after == nil {
		s.after = func(d time.Duration, fn func()) func() bool {
			return time.AfterFunc(d, fn).Stop
		}
	}

	scanners := map[model.Scope]discovery.Scanner{}
	if s.host != nil {
		scanners = s.host.Scanners()
	}
	s.reconciler = &reconcile.Reconciler{
		Store:    s.model,
		Scanners: scanners,
		Logger:   s.logger,
		Recorder: s.metrics,
	}
	s.projector = &project.Projector{
		Doc:      s.host.Doc,
		Store:    s.model,
		Targets:  project.DefaultTargets(),
		Logger:   s.logger,
		Recorder: s.metrics,
	}
	return s
}

func (s *Session) Model() *store.Model { return s.model }
func (s *Session) Host() *Host        { return s.host }

// Open reconciles every discovered scope, as the editor does each time it opens.
func (s *Session) Open() (map[model.Scope]reconcile.Delta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragging {
		return nil, BusyError{}
	}
	out := map[model.Scope]reconcile.Delta{}
	for _, scope := range model.AllScopes() {
		out[scope] = s.reconciler.Reconcile(scope)
	}
	return out, nil
}

// Snapshot returns a copy of one scope.
func (s *Session) Snapshot(scope model.Scope) (model.ScopeState, error) {
	s.model.Lock()
	defer s.model.Unlock()
	st := s.model.Get(scope)
	if st == nil {
		return model.ScopeState{}, ScopeError{Scope: string(scope)}
	}
	return st.Clone(), nil
}

// edit runs fn on the live scope under both locks, then persists and re-applies when fn
// reports a change.
func (s *Session) edit(scope model.Scope, fn func(st *model.ScopeState) (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model.Lock()
	st := s.model.Get(scope)
	if st == nil {
		s.model.Unlock()
		return false, ScopeError{Scope: string(scope)}
	}
	changed, err := fn(st)
	s.model.Unlock()
	if err != nil || !changed {
		return false, err
	}
	s.model.Persist()
	s.applyLocked(scope)
	return true, nil
}

func (s *Session) ToggleHidden(scope model.Scope, itemID string, hidden bool) error {
	_, err := s.edit(scope, func(st *model.ScopeState) (bool, error) {
		it, ok := st.FindItem(itemID)
		if !ok {
			return false, NotFoundError{Kind: "item", ID: itemID}
		}
		if it.Hidden == hidden {
			return false, nil
		}
		it.Hidden = hidden
		return true, nil
	})
	return err
}

// EditItemName asks for a new label. Entering the original name clears the override;
// a blank or cancelled prompt changes nothing.
func (s *Session) EditItemName(ctx context.Context, scope model.Scope, itemID string) (bool, error) {
	snap, err := s.Snapshot(scope)
	if err != nil {
		return false, err
	}
	cur, ok := snap.FindItem(itemID)
	if !ok {
		return false, NotFoundError{Kind: "item", ID: itemID}
	}
	res, err := s.prompter.Input(ctx, fmt.Sprintf("Rename %q (original: %s)", cur.DisplayName(), cur.Name), cur.DisplayName())
	if err != nil {
		return false, err
	}
	name, ok := res.Text()
	if !ok {
		return false, nil
	}
	changed, err := s.edit(scope, func(st *model.ScopeState) (bool, error) {
		it, ok := st.FindItem(itemID)
		if !ok {
			return false, NotFoundError{Kind: "item", ID: itemID}
		}
		if name == it.Name {
			if it.CustomName == nil {
				return false, nil
			}
			it.CustomName = nil
			return true, nil
		}
		if it.CustomName != nil && *it.CustomName == name {
			return false, nil
		}
		it.CustomName = model.StrPtr(name)
		return true, nil
	})
	if changed {
		s.notifier.Notify(LevelSuccess, "Item renamed.")
	}
	return changed, err
}

// RestoreItemName drops the label override.
func (s *Session) RestoreItemName(scope model.Scope, itemID string) (bool, error) {
	return s.edit(scope, func(st *model.ScopeState) (bool, error) {
		it, ok := st.FindItem(itemID)
		if !ok {
			return false, NotFoundError{Kind: "item", ID: itemID}
		}
		if it.CustomName == nil {
			return false, nil
		}
		it.CustomName = nil
		return true, nil
	})
}

// AddCategory prompts for a name and appends a collapsed category.
func (s *Session) AddCategory(ctx context.Context, scope model.Scope) (model.Category, bool, error) {
	res, err := s.prompter.Input(ctx, "New category name", "")
	if err != nil {
		return model.Category{}, false, err
	}
	name, ok := res.Text()
	if !ok {
		return model.Category{}, false, nil
	}
	var created model.Category
	_, err = s.edit(scope, func(st *model.ScopeState) (bool, error) {
		created = model.Category{
			ID:       uuid.NewString(),
			Name:     name,
			Order:    model.IntPtr(len(st.Categories)),
			Expanded: model.BoolPtr(false),
		}
		st.Categories = append(st.Categories, created)
		return true, nil
	})
	if err != nil {
		return model.Category{}, false, err
	}
	s.notifier.Notify(LevelSuccess, fmt.Sprintf("Category %q added.", name))
	return created, true, nil
}

func (s *Session) EditCategoryName(ctx context.Context, scope model.Scope, categoryID string) (bool, error) {
	snap, err := s.Snapshot(scope)
	if err != nil {
		return false, err
	}
	cur, ok := snap.FindCategory(categoryID)
	if !ok {
		return false, NotFoundError{Kind: "category", ID: categoryID}
	}
	res, err := s.prompter.Input(ctx, "Rename category", cur.Name)
	if err != nil {
		return false, err
	}
	name, ok := res.Text()
	if !ok {
		return false, nil
	}
	changed, err := s.edit(scope, func(st *model.ScopeState) (bool, error) {
		c, ok := st.FindCategory(categoryID)
		if !ok {
			return false, NotFoundError{Kind: "category", ID: categoryID}
		}
		if c.Name == name {
			return false, nil
		}
		c.Name = name
		return true, nil
	})
	if changed {
		s.notifier.Notify(LevelSuccess, "Category renamed.")
	}
	return changed, err
}

// DeleteCategory asks for confirmation, then removes the category. Its members become
// uncategorized; none are deleted.
func (s *Session) DeleteCategory(ctx context.Context, scope model.Scope, categoryID string) (bool, error) {
	snap, err := s.Snapshot(scope)
	if err != nil {
		return false, err
	}
	cur, ok := snap.FindCategory(categoryID)
	if !ok {
		return false, NotFoundError{Kind: "category", ID: categoryID}
	}
	ans, err := s.prompter.Confirm(ctx, fmt.Sprintf("Delete category %q? Its items move out of the category and are kept.", cur.Name))
	if err != nil {
		return false, err
	}
	if !ans.Confirmed() {
		return false, nil
	}
	changed, err := s.edit(scope, func(st *model.ScopeState) (bool, error) {
		if _, ok := st.FindCategory(categoryID); !ok {
			return false, NotFoundError{Kind: "category", ID: categoryID}
		}
		DetachCategory(st, categoryID)
		return true, nil
	})
	if changed {
		s.notifier.Notify(LevelSuccess, "Category deleted.")
	}
	return changed, err
}

// DetachCategory removes a category and nulls every member's reference to it.
func DetachCategory(st *model.ScopeState, categoryID string) {
	for i := range st.Items {
		if st.Items[i].CategoryID != nil && *st.Items[i].CategoryID == categoryID {
			st.Items[i].CategoryID = nil
		}
	}
	kept := st.Categories[:0]
	for _, c := range st.Categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	st.Categories = kept
}

// Candidates lists the items that could be added to a category: everything not
// already in it.
func (s *Session) Candidates(scope model.Scope, categoryID string) ([]model.Item, error) {
	snap, err := s.Snapshot(scope)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.FindCategory(categoryID); !ok {
		return nil, NotFoundError{Kind: "category", ID: categoryID}
	}
	var out []model.Item
	for _, it := range order.SortedItems(&snap) {
		if it.CategoryID == nil || *it.CategoryID != categoryID {
			out = append(out, it)
		}
	}
	return out, nil
}

// AddItemsToCategory moves the given items into a category. Unknown ids are skipped.
func (s *Session) AddItemsToCategory(scope model.Scope, categoryID string, itemIDs []string) (int, error) {
	if len(itemIDs) == 0 {
		s.notifier.Notify(LevelInfo, "No items selected.")
		return 0, nil
	}
	moved := 0
	_, err := s.edit(scope, func(st *model.ScopeState) (bool, error) {
		if _, ok := st.FindCategory(categoryID); !ok {
			return false, NotFoundError{Kind: "category", ID: categoryID}
		}
		for _, id := range itemIDs {
			it, ok := st.FindItem(id)
			if !ok {
				continue
			}
			if it.CategoryID != nil && *it.CategoryID == categoryID {
				continue
			}
			it.CategoryID = model.StrPtr(categoryID)
			moved++
		}
		return moved > 0, nil
	})
	if err != nil {
		return 0, err
	}
	if moved > 0 {
		s.notifier.Notify(LevelSuccess, fmt.Sprintf("%d item(s) added to the category.", moved))
	}
	return moved, nil
}

// RemoveFromCategory makes an item uncategorized.
func (s *Session) RemoveFromCategory(scope model.Scope, itemID string) (bool, error) {
	return s.edit(scope, func(st *model.ScopeState) (bool, error) {
		it, ok := st.FindItem(itemID)
		if !ok {
			return false, NotFoundError{Kind: "item", ID: itemID}
		}
		if it.CategoryID == nil {
			return false, nil
		}
		it.CategoryID = nil
		return true, nil
	})
}

func (s *Session) SetCategoryExpanded(scope model.Scope, categoryID string, expanded bool) error {
	_, err := s.edit(scope, func(st *model.ScopeState) (bool, error) {
		c, ok := st.FindCategory(categoryID)
		if !ok {
			return false, NotFoundError{Kind: "category", ID: categoryID}
		}
		if c.IsExpanded() == expanded {
			return false, nil
		}
		c.Expanded = model.BoolPtr(expanded)
		return true, nil
	})
	return err
}

// ToggleCategory clicks the category's toggle in the host menu, which flips it there
// and records the new state. A category with no rendered wrapper is flipped in the
// model directly.
func (s *Session) ToggleCategory(scope model.Scope, categoryID string) error {
	s.mu.Lock()
	doc := s.host.Doc()
	if toggle := findToggle(doc, scope, categoryID); toggle != nil && doc.Click(toggle) {
		s.saveHostLocked()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	snap, err := s.Snapshot(scope)
	if err != nil {
		return err
	}
	c, ok := snap.FindCategory(categoryID)
	if !ok {
		return NotFoundError{Kind: "category", ID: categoryID}
	}
	return s.SetCategoryExpanded(scope, categoryID, !c.IsExpanded())
}

// ResetScope asks for confirmation, then drops every customization of the scope. The
// chat menu goes back to its seed; the extensions menu is rebuilt from discovery.
func (s *Session) ResetScope(ctx context.Context, scope model.Scope) (bool, error) {
	if _, err := s.Snapshot(scope); err != nil {
		return false, err
	}
	ans, err := s.prompter.Confirm(ctx, fmt.Sprintf("Reset the %s? Hidden items, names, order and categories are all removed.", scope.Label()))
	if err != nil {
		return false, err
	}
	if !ans.Confirmed() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragging {
		return false, BusyError{}
	}
	var fresh model.ScopeState
	if scanner := s.reconciler.Scanners[scope]; scanner != nil {
		fresh = model.ScopeState{Items: model.SeedItems(scanner.Scan()), Categories: []model.Category{}}
	} else {
		fresh = model.ScopeState{Items: model.SeedItems(model.DefaultPrimaryItems), Categories: []model.Category{}}
	}
	s.model.Lock()
	s.model.Replace(scope, fresh)
	s.model.Unlock()
	s.model.Persist()
	s.applyLocked(scope)
	s.notifier.Notify(LevelSuccess, scope.Label()+" reset.")
	return true, nil
}

// BeginDrag marks a gesture in progress; host signals and re-applies wait until it ends.
func (s *Session) BeginDrag() {
	s.mu.Lock()
	s.dragging = true
	s.mu.Unlock()
}

func (s *Session) EndDrag() {
	s.mu.Lock()
	s.dragging = false
	s.mu.Unlock()
}

func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// CommitDrag writes a drop's orders and categories, ends the drag and re-applies.
// It is the drag engine's Committer.
func (s *Session) CommitDrag(plan drag.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false

	s.model.Lock()
	st := s.model.Get(plan.Scope)
	if st == nil {
		s.model.Unlock()
		return ScopeError{Scope: string(plan.Scope)}
	}
	drag.ApplyPlan(st, plan)
	s.model.Unlock()

	s.model.Persist()
	s.applyLocked(plan.Scope)
	return nil
}

// MoveItem reorders without a pointer: the item goes into categoryID ("" for the top
// level) before the index-th item there. Orders are renumbered the same way a drop does.
func (s *Session) MoveItem(scope model.Scope, itemID, categoryID string, index int) error {
	return s.move(scope, func(l *drag.List) error {
		return l.MoveItem(itemID, categoryID, index)
	})
}

func (s *Session) MoveCategory(scope model.Scope, categoryID string, index int) error {
	return s.move(scope, func(l *drag.List) error {
		return l.MoveCategory(categoryID, index)
	})
}

func (s *Session) move(scope model.Scope, fn func(l *drag.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragging {
		return BusyError{}
	}

	s.model.Lock()
	st := s.model.Get(scope)
	if st == nil {
		s.model.Unlock()
		return ScopeError{Scope: string(scope)}
	}
	l := drag.BuildList(scope, st)
	if err := fn(l); err != nil {
		s.model.Unlock()
		return err
	}
	drag.ApplyPlan(st, l.Plan())
	s.model.Unlock()

	s.model.Persist()
	s.applyLocked(scope)
	return nil
}

// Apply projects one scope onto the host document.
func (s *Session) Apply(scope model.Scope) project.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(scope)
}

func (s *Session) ApplyAll() map[model.Scope]project.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[model.Scope]project.Result{}
	for _, scope := range model.AllScopes() {
		out[scope] = s.applyLocked(scope)
	}
	return out
}

func (s *Session) applyLocked(scope model.Scope) project.Result {
	res := s.projector.Apply(scope)
	s.saveHostLocked()
	return res
}

func (s *Session) saveHostLocked() {
	if !s.writeHost || s.host == nil {
		return
	}
	if err := s.host.Save(); err != nil {
		s.logger.Error("write host document failed", "path", s.host.Path, "error", err)
	}
}

// HostChanged handles the host's lifecycle signal: after the settle delay, reload the
// document (when it lives on disk), reconcile, and re-apply both scopes. Signals
// during a drag are ignored; a burst of signals collapses into one pass.
func (s *Session) HostChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragging || s.closed {
		s.logger.Debug("host signal ignored", "dragging", s.dragging)
		return
	}
	if s.stopSettle != nil {
		s.stopSettle()
	}
	s.stopSettle = s.after(s.settle, s.refresh)
}

func (s *Session) refresh() {
	if s.reapply() && s.refreshed != nil {
		s.refreshed()
	}
}

func (s *Session) reapply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSettle = nil
	if s.dragging || s.closed {
		return false
	}
	if s.host != nil && s.host.Path != "" {
		if err := s.host.Reload(); err != nil {
			s.logger.Warn("reload host document failed", "path", s.host.Path, "error", err)
			return false
		}
	}
	for _, scope := range model.AllScopes() {
		s.reconciler.Reconcile(scope)
	}
	for _, scope := range model.AllScopes() {
		s.applyLocked(scope)
	}
	s.logger.Info("re-applied after host change")
	return true
}

// Close cancels a pending refresh and flushes unsaved model changes.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.stopSettle != nil {
		s.stopSettle()
		s.stopSettle = nil
	}
	s.mu.Unlock()
	return s.model.Flush(ctx)
}

func findToggle(doc *hostdoc.Document, scope model.Scope, categoryID string) *html.Node {
	if doc == nil {
		return nil
	}
	tgt, ok := project.DefaultTargets()[scope]
	if !ok {
		return nil
	}
	root := doc.Query(tgt.Root)
	if root == nil {
		return nil
	}
	w := project.WrapperFor(root, categoryID)
	if w == nil {
		return nil
	}
	return hostdoc.Query(w, "."+project.ToggleClass)
}
