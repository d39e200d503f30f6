// ABOUTME: Session commands: login, signup, logout and whoami
// ABOUTME: Prompts for missing credentials and keeps the token in the session file

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/validation"
	"github.com/spf13/cobra"
)

var (
	authEmail           string
	authPassword        string
	authConfirmPassword string
)

// promptSecret asks for a hidden value. Tests replace it.
var promptSecret = func(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return value, err
}

// promptText asks for a visible value. Tests replace it.
var promptText = func(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Run()
	return value, err
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Log in with email and password. Missing values are prompted for.

Exit codes:
  0 - Logged in
  1 - Invalid input
  2 - Login rejected or backend unreachable`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runLogin(cmd.Context(), cmd.OutOrStdout()))
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runSignup(cmd.Context(), cmd.OutOrStdout()))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runLogout(cmd.OutOrStdout()))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runWhoami(cmd.OutOrStdout(), time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")
	}
	signupCmd.Flags().StringVar(&authConfirmPassword, "confirm-password", "", "Repeat the password (prompted when omitted)")
}

// fillCredentials prompts for whatever was not passed as a flag
func fillCredentials(confirm bool) error {
	var err error
	if authEmail == "" {
		if authEmail, err = promptText("Email"); err != nil {
			return err
		}
	}
	if authPassword == "" {
		if authPassword, err = promptSecret("Password"); err != nil {
			return err
		}
	}
	if confirm && authConfirmPassword == "" {
		if authConfirmPassword, err = promptSecret("Confirm password"); err != nil {
			return err
		}
	}
	return nil
}

// printFieldErrors writes one line per invalid field
func printFieldErrors(w io.Writer, errs validation.Errors, fields []string) {
	for _, msg := range errs.Ordered(fields) {
		fmt.Fprintf(w, "✗ %s\n", msg)
	}
}

var (
	loginFields  = []string{validation.FieldEmail, validation.FieldPassword}
	signupFields = []string{validation.FieldEmail, validation.FieldPassword, validation.FieldConfirmPassword}
)

// runLogin authenticates and stores the token, returning the exit code
func runLogin(ctx context.Context, w io.Writer) int {
	if err := fillCredentials(false); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	form := validation.LoginForm{Email: authEmail, Password: authPassword}
	if errs := validation.ValidateLogin(form); !errs.OK() {
		printFieldErrors(w, errs, loginFields)
		return exitFailed
	}

	store := newStore()
	token, err := newClient(store).Login(ctx, form.Email, form.Password)
	if err != nil {
		// A rejected login says nothing about the stored session
		fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Login failed"))
		return exitError
	}
	if err := store.Set(token); err != nil {
		fmt.Fprintf(w, "Error: could not save session: %v\n", err)
		return exitError
	}

	email := session.Email(store)
	if email == "" {
		email = form.Email
	}
	if IsJSONOutput() {
		return writeJSON(w, map[string]interface{}{"email": email, "logged_in": true})
	}
	fmt.Fprintf(w, "✓ Logged in as %s\n", email)
	return exitOK
}

// runSignup creates an account. A token in the response logs the user in.
func runSignup(ctx context.Context, w io.Writer) int {
	if err := fillCredentials(true); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	form := validation.SignupForm{Email: authEmail, Password: authPassword, ConfirmPassword: authConfirmPassword}
	if errs := validation.ValidateSignup(form); !errs.OK() {
		printFieldErrors(w, errs, signupFields)
		return exitFailed
	}

	store := newStore()
	token, err := newClient(store).Signup(ctx, form.Email, form.Password)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Signup failed"))
		return exitError
	}

	loggedIn := false
	if token != "" {
		if err := store.Set(token); err != nil {
			fmt.Fprintf(w, "Error: could not save session: %v\n", err)
			return exitError
		}
		loggedIn = true
	}

	switch {
	case IsJSONOutput():
		return writeJSON(w, map[string]interface{}{"email": form.Email, "logged_in": loggedIn})
	case loggedIn:
		fmt.Fprintf(w, "✓ Signed up and logged in as %s\n", form.Email)
	default:
		fmt.Fprintf(w, "✓ Signed up as %s. Run 'product-manager login' to sign in.\n", form.Email)
	}
	return exitOK
}

func runLogout(w io.Writer) int {
	if err := newStore().Clear(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if IsJSONOutput() {
		return writeJSON(w, map[string]interface{}{"logged_in": false})
	}
	fmt.Fprintln(w, "✓ Logged out")
	return exitOK
}

// runWhoami reports the user named in the stored token
func runWhoami(w io.Writer, now time.Time) int {
	store := newStore()
	if !requireSession(w, store) {
		return exitError
	}

	claims, err := session.ParseClaims(store.Token())
	if err != nil {
		claims = &session.Claims{}
	}

	if IsJSONOutput() {
		out := map[string]interface{}{"email": claims.Email, "expired": claims.Expired(now)}
		if !claims.ExpiresAt.IsZero() {
			out["expires_at"] = claims.ExpiresAt.UTC().Format(time.RFC3339)
		}
		return writeJSON(w, out)
	}

	email := claims.Email
	if email == "" {
		email = "(unknown user)"
	}
	fmt.Fprintf(w, "Logged in as %s\n", email)
	switch {
	case claims.ExpiresAt.IsZero():
	case claims.Expired(now):
		fmt.Fprintf(w, "Session expired at %s. Run 'product-manager login' to sign in again.\n", claims.ExpiresAt.Local().Format(time.DateTime))
	default:
		fmt.Fprintf(w, "Session expires at %s\n", claims.ExpiresAt.Local().Format(time.DateTime))
	}
	return exitOK
}

// writeJSON prints v indented and returns the exit code for the outcome
func writeJSON(w io.Writer, v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error: encoding JSON output: %v\n", err)
		return exitError
	}
	fmt.Fprintln(w, string(data))
	return exitOK
}
