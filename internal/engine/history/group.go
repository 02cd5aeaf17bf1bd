package history

// GroupScope provides a convenient way to group commands using defer.
//
//	defer h.GroupScope("Rearrange").End()
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End ends the group scope. Only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Transaction executes fn within a grouped undo context.
// If fn fails, the edits it already made are undone and the group is dropped.
func (h *History) Transaction(name string, t Target, fn func() error) error {
	h.BeginGroup(name)

	if err := fn(); err != nil {
		h.mu.Lock()
		cmds := h.groupCmds
		h.mu.Unlock()
		h.CancelGroup()
		rollback := NewCompoundCommand(name, cmds...)
		if uerr := rollback.Undo(t); uerr != nil {
			return uerr
		}
		return err
	}

	h.EndGroup()
	return nil
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes all operations since the checkpoint.
func (h *History) UndoToCheckpoint(cp Checkpoint, t Target) error {
	for h.UndoCount() > cp.undoDepth {
		if err := h.Undo(t); err != nil {
			return err
		}
	}
	return nil
}
