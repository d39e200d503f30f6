// ABOUTME: Tests for the login and signup forms against the fake backend
// ABOUTME: Checks validation gating, token storage and failure messages

package authform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/apitest"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/validation"
)

func setup(t *testing.T, mode Mode) (*apitest.Server, *session.MemoryStore, *Form) {
	t.Helper()
	srv := apitest.New(t)
	store := session.NewMemoryStore("")
	return srv, store, New(mode, client.New(srv.APIURL(), store), store)
}

// submit presses enter and runs the resulting commands until a message
// meant for the app comes out
func submit(t *testing.T, f *Form) tea.Msg {
	t.Helper()
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(resultMsg); !ok {
			return msg
		}
		_, cmd = f.Update(msg)
	}
	return nil
}

func TestLogin_StoresToken(t *testing.T) {
	srv, store, f := setup(t, ModeLogin)
	srv.AddUser("ada@example.com", "secret1")
	f.fields.SetValue(validation.FieldEmail, " ada@example.com ")
	f.fields.SetValue(validation.FieldPassword, "secret1")

	msg := submit(t, f)

	auth, ok := msg.(AuthenticatedMsg)
	if !ok {
		t.Fatalf("got %T %+v, want AuthenticatedMsg", msg, msg)
	}
	if auth.Email != "ada@example.com" {
		t.Errorf("email = %q", auth.Email)
	}
	if store.Token() == "" {
		t.Error("token should be stored")
	}
	if f.StoredToken() != store.Token() {
		t.Error("form should remember the token it stored")
	}
	if f.Submitting() {
		t.Error("form should no longer be submitting")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv, store, f := setup(t, ModeLogin)
	srv.AddUser("ada@example.com", "secret1")
	f.fields.SetValue(validation.FieldEmail, "ada@example.com")
	f.fields.SetValue(validation.FieldPassword, "wrong-password")

	msg := submit(t, f)

	failed, ok := msg.(FailedMsg)
	if !ok {
		t.Fatalf("got %T, want FailedMsg", msg)
	}
	if failed.Message != "Login failed: Bad credentials" {
		t.Errorf("message = %q", failed.Message)
	}
	if store.Token() != "" || f.StoredToken() != "" {
		t.Error("no token should be stored")
	}
}

func TestLogin_InvalidFormSkipsNetwork(t *testing.T) {
	srv, _, f := setup(t, ModeLogin)
	f.fields.SetValue(validation.FieldEmail, "not-an-email")

	f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if f.Submitting() {
		t.Fatal("invalid form should not start submitting")
	}
	if srv.TotalCalls() != 0 {
		t.Error("invalid form reached the network")
	}
	if !f.Errors().Has(validation.FieldEmail) || !f.Errors().Has(validation.FieldPassword) {
		t.Errorf("errors = %v", f.Errors())
	}
}

func TestLogin_EditClearsFieldError(t *testing.T) {
	_, _, f := setup(t, ModeLogin)
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// focus lands on the first failing field
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	if f.Errors().Has(validation.FieldEmail) {
		t.Error("email error should clear on edit")
	}
	if !f.Errors().Has(validation.FieldPassword) {
		t.Error("password error should remain")
	}
}

func TestSignup_PlainTextResponse(t *testing.T) {
	srv, store, f := setup(t, ModeSignup)
	f.fields.SetValue(validation.FieldEmail, "new@example.com")
	f.fields.SetValue(validation.FieldPassword, "secret1")
	f.fields.SetValue(validation.FieldConfirmPassword, "secret1")

	msg := submit(t, f)

	if up, ok := msg.(SignedUpMsg); !ok || up.Email != "new@example.com" {
		t.Fatalf("got %T %+v, want SignedUpMsg", msg, msg)
	}
	if store.Token() != "" {
		t.Error("signup without token must not store one")
	}
	if srv.Calls(apitest.RouteSignup) != 1 {
		t.Error("expected one signup call")
	}
}

func TestSignup_Mismatch(t *testing.T) {
	srv, _, f := setup(t, ModeSignup)
	f.fields.SetValue(validation.FieldEmail, "new@example.com")
	f.fields.SetValue(validation.FieldPassword, "secret1")
	f.fields.SetValue(validation.FieldConfirmPassword, "secret2")

	f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if f.Errors()[validation.FieldConfirmPassword] != "Passwords do not match" {
		t.Errorf("errors = %v", f.Errors())
	}
	if srv.TotalCalls() != 0 {
		t.Error("mismatch reached the network")
	}
}

func TestSwitchKeys(t *testing.T) {
	_, _, login := setup(t, ModeLogin)
	_, cmd := login.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if cmd == nil {
		t.Fatal("expected switch command")
	}
	if sw, ok := cmd().(SwitchMsg); !ok || sw.Mode != ModeSignup {
		t.Errorf("ctrl+n should switch to signup")
	}

	_, _, signup := setup(t, ModeSignup)
	_, cmd = signup.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected switch command")
	}
	if sw, ok := cmd().(SwitchMsg); !ok || sw.Mode != ModeLogin {
		t.Errorf("esc should switch to login")
	}
}

func TestView(t *testing.T) {
	_, _, f := setup(t, ModeSignup)
	if view := f.View(); view == "" {
		t.Error("View() returned empty string")
	}
}
