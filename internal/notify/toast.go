// ABOUTME: Single-slot toast state with generation-tagged auto-dismiss ticks
// ABOUTME: A newer Show or a Dismiss invalidates any tick still in flight

package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Severity classifies a toast
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// ExpiredMsg is delivered when an auto-dismiss tick fires
type ExpiredMsg struct {
	gen int
}

// Toast holds at most one visible message
type Toast struct {
	message  string
	severity Severity
	visible  bool
	duration time.Duration
	gen      int
}

// NewToast returns a hidden toast. A zero duration disables auto-dismiss.
func NewToast(duration time.Duration) *Toast {
	if duration < 0 {
		duration = 0
	}
	return &Toast{duration: duration}
}

// Show replaces the current toast and restarts the timer.
// The returned command is nil when auto-dismiss is disabled.
func (t *Toast) Show(message string, severity Severity) tea.Cmd {
	t.gen++
	t.message = message
	t.severity = severity
	t.visible = true

	if t.duration == 0 {
		return nil
	}
	gen := t.gen
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return ExpiredMsg{gen: gen}
	})
}

// Dismiss hides the toast and cancels any pending tick
func (t *Toast) Dismiss() {
	t.gen++
	t.visible = false
}

// Update handles expiry ticks. It reports whether the toast was hidden.
func (t *Toast) Update(msg tea.Msg) bool {
	expired, ok := msg.(ExpiredMsg)
	if !ok || !t.visible || expired.gen != t.gen {
		return false
	}
	t.visible = false
	return true
}

func (t *Toast) Visible() bool { return t.visible }
func (t *Toast) Message() string { return t.message }
func (t *Toast) Severity() Severity { return t.severity }
