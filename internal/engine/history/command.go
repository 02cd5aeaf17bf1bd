package history

import (
	"fmt"

	"github.com/dshills/rearrange/internal/engine/buffer"
)

// Target receives edits from commands.
type Target interface {
	ApplyEdit(edit buffer.Edit) (buffer.EditResult, error)
}

// Command represents an edit action that can be executed and undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(t Target) error

	// Undo reverses the command and returns an error if it fails.
	Undo(t Target) error

	// Description returns a human-readable description of the command.
	Description() string
}

// EditCommand replaces a range with new text.
type EditCommand struct {
	Edit   buffer.Edit
	change buffer.Change
	done   bool
}

// NewEditCommand creates a new edit command.
func NewEditCommand(edit buffer.Edit) *EditCommand {
	return &EditCommand{Edit: edit}
}

// RecordedEdit wraps an edit that has already been applied so it can be
// pushed onto the history without replaying it.
func RecordedEdit(edit buffer.Edit, result buffer.EditResult) *EditCommand {
	return &EditCommand{Edit: edit, change: result.Change(edit.NewText), done: true}
}

// Execute applies the edit.
func (c *EditCommand) Execute(t Target) error {
	result, err := t.ApplyEdit(c.Edit)
	if err != nil {
		return err
	}
	c.change = result.Change(c.Edit.NewText)
	c.done = true
	return nil
}

// Undo applies the inverse of the last execution.
func (c *EditCommand) Undo(t Target) error {
	if !c.done {
		return nil
	}
	if _, err := t.ApplyEdit(c.change.Invert().ToEdit()); err != nil {
		return err
	}
	c.done = false
	return nil
}

// Description returns a human-readable description of the command.
func (c *EditCommand) Description() string {
	oldLen := c.Edit.Range.Len()
	newLen := len(c.Edit.NewText)
	switch {
	case oldLen == 0:
		return fmt.Sprintf("Insert %d characters", newLen)
	case newLen == 0:
		return fmt.Sprintf("Delete %d characters", oldLen)
	}
	return fmt.Sprintf("Replace %d with %d characters", oldLen, newLen)
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(t Target) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(t); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(t)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(t Target) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(t); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
