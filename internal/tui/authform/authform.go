// ABOUTME: Login and signup screens as a bubbletea model
// ABOUTME: Validates locally, calls the backend, and stores the issued token

package authform

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/tui/fields"
	"github.com/markalston/product-manager/internal/tui/icons"
	"github.com/markalston/product-manager/internal/tui/styles"
	"github.com/markalston/product-manager/internal/validation"
)

// Mode selects which form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// Fallback toast texts when the backend sends no message
const (
	MsgLoginFailed  = "Login failed"
	MsgSignupFailed = "Signup failed"
)

// Authenticator is the part of the API client used here
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, email, password string) (string, error)
}

// AuthenticatedMsg is sent once a token has been stored
type AuthenticatedMsg struct {
	Email string
}

// SignedUpMsg is sent when signup succeeded without issuing a token
type SignedUpMsg struct {
	Email string
}

// FailedMsg carries a user-facing failure message
type FailedMsg struct {
	Message string
}

// SwitchMsg asks the app to show the other form
type SwitchMsg struct {
	Mode Mode
}

type resultMsg struct {
	mode  Mode
	email string
	token string
	err   error
}

// Form is a login or signup form
type Form struct {
	mode       Mode
	auth       Authenticator
	store      session.Store
	fields     *fields.Set
	errors     validation.Errors
	submitting bool
	stored     string // token this form wrote to the session
}

// New builds an empty form for mode
func New(mode Mode, auth Authenticator, store session.Store) *Form {
	specs := []fields.Spec{
		{Key: validation.FieldEmail, Label: "Email", Placeholder: "you@example.com"},
		{Key: validation.FieldPassword, Label: "Password", Password: true},
	}
	if mode == ModeSignup {
		specs = append(specs, fields.Spec{Key: validation.FieldConfirmPassword, Label: "Confirm password", Password: true})
	}
	return &Form{
		mode:   mode,
		auth:   auth,
		store:  store,
		fields: fields.New(specs...),
		errors: validation.Errors{},
	}
}

func (f *Form) Mode() Mode { return f.mode }
func (f *Form) Submitting() bool { return f.submitting }
func (f *Form) Errors() validation.Errors { return f.errors }

// StoredToken returns the token saved by a successful submit, or ""
func (f *Form) StoredToken() string { return f.stored }

// SetEmail prefills the email field
func (f *Form) SetEmail(email string) {
	f.fields.SetValue(validation.FieldEmail, email)
	if email != "" {
		f.fields.FocusKey(validation.FieldPassword)
	}
}

// SetWidth resizes the inputs
func (f *Form) SetWidth(width int) {
	f.fields.SetWidth(width)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return nil
}

// Update handles keys and the backend result
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return f, f.handleResult(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return f, f.submit()
		case "ctrl+n":
			if f.mode == ModeLogin {
				return f, switchTo(ModeSignup)
			}
		case "esc":
			if f.mode == ModeSignup {
				return f, switchTo(ModeLogin)
			}
		}
	}

	changed, cmd := f.fields.Update(msg)
	if changed != "" {
		f.errors.Clear(changed)
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	if f.submitting {
		return nil
	}

	email := strings.TrimSpace(f.fields.Value(validation.FieldEmail))
	password := f.fields.Value(validation.FieldPassword)

	if f.mode == ModeSignup {
		f.errors = validation.ValidateSignup(validation.SignupForm{
			Email:           email,
			Password:        password,
			ConfirmPassword: f.fields.Value(validation.FieldConfirmPassword),
		})
	} else {
		f.errors = validation.ValidateLogin(validation.LoginForm{Email: email, Password: password})
	}
	if !f.errors.OK() {
		for _, key := range f.fields.Keys() {
			if f.errors.Has(key) {
				return f.fields.FocusKey(key)
			}
		}
		return nil
	}

	f.submitting = true
	mode, auth := f.mode, f.auth
	return func() tea.Msg {
		var (
			token string
			err   error
		)
		if mode == ModeSignup {
			token, err = auth.Signup(context.Background(), email, password)
		} else {
			token, err = auth.Login(context.Background(), email, password)
		}
		return resultMsg{mode: mode, email: email, token: token, err: err}
	}
}

func (f *Form) handleResult(msg resultMsg) tea.Cmd {
	f.submitting = false

	if msg.err != nil {
		slog.Warn("authentication failed", "mode", msg.mode, "error", msg.err)
		fallback := MsgLoginFailed
		if msg.mode == ModeSignup {
			fallback = MsgSignupFailed
		}
		text := client.Message(msg.err, fallback)
		return func() tea.Msg { return FailedMsg{Message: text} }
	}

	if msg.token == "" {
		return func() tea.Msg { return SignedUpMsg{Email: msg.email} }
	}
	if err := f.store.Set(msg.token); err != nil {
		slog.Error("saving session", "error", err)
		return func() tea.Msg { return FailedMsg{Message: "Could not save session: " + err.Error()} }
	}
	f.stored = msg.token
	return func() tea.Msg { return AuthenticatedMsg{Email: msg.email} }
}

// View renders the form
func (f *Form) View() string {
	var sb strings.Builder

	title := icons.Lock.String() + " Log in"
	hint := "New here? Press ctrl+n to create an account."
	if f.mode == ModeSignup {
		title = icons.User.String() + " Create an account"
		hint = "Already registered? Press esc to log in."
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(f.fields.View(f.errors))
	sb.WriteString("\n")

	if f.submitting {
		sb.WriteString(styles.Subtitle.Render("Submitting..."))
	} else {
		sb.WriteString(styles.Help.Render(hint))
	}
	return sb.String()
}

func switchTo(mode Mode) tea.Cmd {
	return func() tea.Msg { return SwitchMsg{Mode: mode} }
}
