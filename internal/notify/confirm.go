// ABOUTME: Blocking yes/no confirmation bound to a single destructive action
// ABOUTME: Only one dialog may be open; confirm runs the action, cancel drops it

package notify

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrConfirmPending is returned when a dialog is requested while one is open
var ErrConfirmPending = errors.New("a confirmation is already pending")

// Target identifies what a confirmation is about
type Target struct {
	ID    string
	Label string
}

// Action runs once the user confirms
type Action func() tea.Cmd

// Confirm is the confirm-dialog state
type Confirm struct {
	open   bool
	target Target
	title  string
	prompt string
	action Action
}

// Request opens the dialog with target and action bound
func (c *Confirm) Request(target Target, title, prompt string, action Action) error {
	if c.open {
		return ErrConfirmPending
	}
	c.open = true
	c.target = target
	c.title = title
	c.prompt = prompt
	c.action = action
	return nil
}

// Confirm closes the dialog and runs the bound action.
// It returns nil when no dialog is open.
func (c *Confirm) Confirm() tea.Cmd {
	if !c.open {
		return nil
	}
	action := c.action
	c.reset()
	if action == nil {
		return nil
	}
	return action()
}

// Cancel closes the dialog without running the action
func (c *Confirm) Cancel() {
	c.reset()
}

func (c *Confirm) reset() {
	*c = Confirm{}
}

func (c *Confirm) Open() bool { return c.open }
func (c *Confirm) Target() Target { return c.target }
func (c *Confirm) Title() string { return c.title }
func (c *Confirm) Prompt() string { return c.prompt }
