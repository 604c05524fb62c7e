package customize

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ScopeError reports a scope name that is neither menu.
type ScopeError struct {
	Scope string
}

func (e ScopeError) Error() string {
	return fmt.Sprintf("unknown scope: %s", e.Scope)
}

// BusyError is returned for model edits attempted while a drag gesture is in progress.
type BusyError struct{}

func (BusyError) Error() string { return "drag in progress" }
