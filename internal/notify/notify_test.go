// ABOUTME: Tests for toast replacement, expiry and confirm dialog transitions
// ABOUTME: Tick commands use a tiny duration so they can be run inline

package notify

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestToast_ShowAndExpire(t *testing.T) {
	toast := NewToast(time.Millisecond)

	cmd := toast.Show("saved", SeveritySuccess)
	if cmd == nil {
		t.Fatal("expected a tick command")
	}
	if !toast.Visible() || toast.Message() != "saved" || toast.Severity() != SeveritySuccess {
		t.Fatalf("unexpected toast state: %+v", toast)
	}

	msg := cmd()
	if !toast.Update(msg) {
		t.Fatal("expected expiry to hide toast")
	}
	if toast.Visible() {
		t.Error("toast should be hidden")
	}
}

func TestToast_StaleExpiryKeepsNewerToast(t *testing.T) {
	toast := NewToast(time.Millisecond)

	first := toast.Show("first", SeverityInfo)
	toast.Show("second", SeverityError)

	if toast.Update(first()) {
		t.Fatal("stale tick must not hide the newer toast")
	}
	if !toast.Visible() || toast.Message() != "second" {
		t.Errorf("toast = %q visible=%v", toast.Message(), toast.Visible())
	}
}

func TestToast_DismissCancelsTick(t *testing.T) {
	toast := NewToast(time.Millisecond)
	cmd := toast.Show("bye", SeverityWarning)
	toast.Dismiss()

	if toast.Visible() {
		t.Fatal("dismiss should hide")
	}

	toast.Show("again", SeverityInfo)
	if toast.Update(cmd()) {
		t.Error("tick from before dismiss must be ignored")
	}
}

func TestToast_ZeroDurationDisablesTimer(t *testing.T) {
	toast := NewToast(0)
	if cmd := toast.Show("sticky", SeverityInfo); cmd != nil {
		t.Error("expected no tick for zero duration")
	}
	if !toast.Visible() {
		t.Error("toast should be visible")
	}
}

func TestToast_IgnoresOtherMessages(t *testing.T) {
	toast := NewToast(0)
	toast.Show("x", SeverityInfo)
	if toast.Update(tea.KeyMsg{}) {
		t.Error("unrelated message hid the toast")
	}
}

func TestSeverity_String(t *testing.T) {
	tests := map[Severity]string{
		SeverityInfo:    "info",
		SeveritySuccess: "success",
		SeverityWarning: "warning",
		SeverityError:   "error",
	}
	for sev, want := range tests {
		if got := sev.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", sev, got, want)
		}
	}
}

type doneMsg struct{}

func TestConfirm_ConfirmRunsAction(t *testing.T) {
	var c Confirm
	calls := 0
	err := c.Request(Target{ID: "7", Label: "Lamp"}, "Delete product", "Delete Lamp?", func() tea.Cmd {
		calls++
		return func() tea.Msg { return doneMsg{} }
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !c.Open() || c.Target().ID != "7" || c.Prompt() != "Delete Lamp?" {
		t.Fatalf("unexpected dialog state: %+v", c)
	}

	cmd := c.Confirm()
	if calls != 1 {
		t.Fatalf("action ran %d times", calls)
	}
	if _, ok := cmd().(doneMsg); !ok {
		t.Error("expected action command")
	}
	if c.Open() {
		t.Error("dialog should be closed")
	}
}

func TestConfirm_CancelHasNoSideEffect(t *testing.T) {
	var c Confirm
	calls := 0
	_ = c.Request(Target{ID: "1"}, "t", "p", func() tea.Cmd { calls++; return nil })

	c.Cancel()
	if c.Open() {
		t.Error("dialog should be closed")
	}
	if cmd := c.Confirm(); cmd != nil || calls != 0 {
		t.Errorf("confirm after cancel ran the action (%d calls)", calls)
	}
}

func TestConfirm_NoNesting(t *testing.T) {
	var c Confirm
	_ = c.Request(Target{ID: "1"}, "t", "p", nil)

	err := c.Request(Target{ID: "2"}, "t", "p", nil)
	if !errors.Is(err, ErrConfirmPending) {
		t.Fatalf("err = %v, want ErrConfirmPending", err)
	}
	if c.Target().ID != "1" {
		t.Error("original target must be kept")
	}
}
