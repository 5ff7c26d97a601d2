package sqlschema

import "sync"

// ConstraintAttach is the event fired when a constraint or index becomes
// associated with its owning table. For constraints first attached to a
// column, the event fires later, when that column joins a table.
type ConstraintAttach struct {
	Constraint Constraint
	Table      *Table
}

// ColumnAttach is the event fired when a column joins a table.
type ColumnAttach struct {
	Column *Column
	Table  *Table
}

// Hook is a function called when a schema object attaches to its parent.
// Returning an error aborts the attachment in progress.
type Hook[T any] func(T) error

// Hooks is a set of hooks that can be called all at once
type Hooks[T any] struct {
	mu    sync.RWMutex
	hooks []Hook[T]
}

// AppendHooks adds hooks to the set
func (h *Hooks[T]) AppendHooks(hooks ...Hook[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks = append(h.hooks, hooks...)
}

// RunHooks calls all the registered hooks in registration order, stopping
// at the first error.
func (h *Hooks[T]) RunHooks(o T) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.hooks {
		if err := hook(o); err != nil {
			return err
		}
	}

	return nil
}
