// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes between login, signup, product list and product form screens

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/notify"
	"github.com/markalston/product-manager/internal/productlist"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/tui/authform"
	"github.com/markalston/product-manager/internal/tui/filterform"
	"github.com/markalston/product-manager/internal/tui/icons"
	"github.com/markalston/product-manager/internal/tui/productform"
	"github.com/markalston/product-manager/internal/tui/producttable"
	"github.com/markalston/product-manager/internal/tui/styles"
	"github.com/markalston/product-manager/internal/tui/widgets"
	"github.com/markalston/product-manager/internal/validation"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenProducts
	ScreenCreate
	ScreenUpdate
)

func (s Screen) String() string {
	switch s {
	case ScreenSignup:
		return "signup"
	case ScreenProducts:
		return "products"
	case ScreenCreate:
		return "create"
	case ScreenUpdate:
		return "update"
	default:
		return "login"
	}
}

// gated screens need a session
func (s Screen) gated() bool {
	return s != ScreenLogin && s != ScreenSignup
}

// Toast texts owned by the shell
const (
	msgWelcome        = "Welcome back, %s"
	msgSignedUp       = "Signup successful! Please log in."
	msgFetchFailed    = "Error fetching product"
	msgSessionEnded   = "Your session ended in another window"
	msgNothingToEdit  = "Select a product first"
	msgSessionStarted = "Signed in from another window"
)

// dismissKey closes the visible toast on every screen
const dismissKey = "ctrl+x"

// productFetchedMsg carries the product loaded for the update screen
type productFetchedMsg struct {
	product *client.Product
	err     error
}

// watchStartedMsg hands the session watch channel to the loop
type watchStartedMsg struct {
	changes <-chan struct{}
}

// sessionChangedMsg is sent when the session file changes on disk
type sessionChangedMsg struct{}

// Deps are the collaborators the app needs
type Deps struct {
	Client        *client.Client
	Session       session.Store
	ToastDuration time.Duration
	// SessionFile is watched for logins and logouts made by other processes
	SessionFile string
}

// App is the root model for the TUI
type App struct {
	ctx         context.Context
	client      *client.Client
	session     session.Store
	sessionFile string
	changes     <-chan struct{}
	ctrl        *productlist.Controller

	screen Screen
	width  int
	height int
	email  string

	// Child models
	auth        *authform.Form
	productForm *productform.Form
	filter      *filterform.Form
	table       *producttable.Table
	search      textinput.Model
	searching   bool
	spinner     spinner.Model
	fetching    bool
}

// New creates the app on the login screen, or the product list when a
// session already exists
func New(deps Deps) *App {
	search := textinput.New()
	search.Prompt = icons.Search.String() + " "
	search.Placeholder = "search name, description or category"
	search.CharLimit = 100

	a := &App{
		ctx:         context.Background(),
		client:      deps.Client,
		session:     deps.Session,
		sessionFile: deps.SessionFile,
		ctrl:        productlist.New(deps.Client, deps.Session, productlist.Options{ToastDuration: deps.ToastDuration}),
		width:       minTerminalWidth,
		height:      24,
		table:       producttable.New(minTerminalWidth, 10),
		search:      search,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	a.spinner.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	if session.Authenticated(a.session) {
		a.screen = ScreenProducts
		a.email = session.Email(a.session)
	} else {
		a.openAuth(authform.ModeLogin, "")
	}
	return a
}

// Screen returns the current screen
func (a *App) Screen() Screen {
	return a.screen
}

// Controller exposes the product list state
func (a *App) Controller() *productlist.Controller {
	return a.ctrl
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, a.watchSession()}
	if a.screen == ScreenProducts {
		cmds = append(cmds, a.ctrl.Load(a.ctrl.Filter()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	if a.screen == ScreenProducts {
		a.table.SetProducts(a.ctrl.Visible())
	}
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		if msg.String() == dismissKey && a.ctrl.Toast().Visible() {
			a.ctrl.Toast().Dismiss()
			return nil
		}
		if a.ctrl.Confirm().Open() {
			return a.updateConfirm(msg)
		}
		return a.updateScreen(msg)

	case productlist.NavigateMsg:
		return a.handleNavigate(msg)

	case authform.AuthenticatedMsg:
		a.email = session.Email(a.session)
		if a.email == "" {
			a.email = msg.Email
		}
		welcome := a.ctrl.Notify(fmt.Sprintf(msgWelcome, a.email), notify.SeveritySuccess)
		return tea.Batch(welcome, a.enterProducts())

	case authform.SignedUpMsg:
		a.openAuth(authform.ModeLogin, msg.Email)
		return a.ctrl.Notify(msgSignedUp, notify.SeveritySuccess)

	case authform.FailedMsg:
		return a.ctrl.Notify(msg.Message, notify.SeverityError)

	case authform.SwitchMsg:
		a.openAuth(msg.Mode, "")
		return nil

	case productform.CancelledMsg:
		a.leaveForm()
		return nil

	case filterform.AppliedMsg:
		a.filter = nil
		return a.ctrl.Load(msg.Filter)

	case filterform.InvalidMsg:
		a.filter = nil
		return a.ctrl.Notify(msg.Message, notify.SeverityError)

	case filterform.CancelledMsg:
		a.filter = nil
		return nil

	case productFetchedMsg:
		return a.handleProductFetched(msg)

	case watchStartedMsg:
		a.changes = msg.changes
		return waitForSession(a.changes)

	case sessionChangedMsg:
		return tea.Batch(a.handleSessionChanged(), waitForSession(a.changes))
	}

	// Everything else belongs to the controller or the active child
	cmds := []tea.Cmd{a.ctrl.Update(msg)}
	switch {
	case a.filter != nil:
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		cmds = append(cmds, cmd)
	case a.searching:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		cmds = append(cmds, cmd)
	case a.auth != nil && !a.screen.gated():
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		cmds = append(cmds, cmd)
	case a.productForm != nil:
		var cmd tea.Cmd
		a.productForm, cmd = a.productForm.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		return a.ctrl.ConfirmDelete()
	case "n", "N", "esc":
		a.ctrl.CancelDelete()
	}
	return nil
}

func (a *App) updateScreen(msg tea.KeyMsg) tea.Cmd {
	switch a.screen {
	case ScreenLogin, ScreenSignup:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return cmd

	case ScreenCreate, ScreenUpdate:
		if a.productForm == nil {
			if msg.String() == "esc" {
				a.leaveForm()
			}
			return nil
		}
		var cmd tea.Cmd
		a.productForm, cmd = a.productForm.Update(msg)
		return cmd

	case ScreenProducts:
		return a.updateProducts(msg)
	}
	return nil
}

func (a *App) updateProducts(msg tea.KeyMsg) tea.Cmd {
	if a.filter != nil {
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		return cmd
	}
	if a.searching {
		return a.updateSearch(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		a.searching = true
		return a.search.Focus()
	case "f":
		a.filter = filterform.New(a.ctrl.Filter())
		return a.filter.Init()
	case "x":
		return a.ctrl.Load(client.Filter{})
	case "r":
		return a.ctrl.Load(a.ctrl.Filter())
	case "n", "a":
		return a.openCreate()
	case "e", "enter":
		p, ok := a.table.Selected()
		if !ok {
			return a.ctrl.Notify(msgNothingToEdit, notify.SeverityWarning)
		}
		return a.openUpdate(p.ID)
	case "d", "delete":
		p, ok := a.table.Selected()
		if !ok {
			return a.ctrl.Notify(msgNothingToEdit, notify.SeverityWarning)
		}
		if err := a.ctrl.RequestDelete(p); err != nil {
			return a.ctrl.Notify(err.Error(), notify.SeverityWarning)
		}
		return nil
	case "l":
		return a.ctrl.Logout()
	}
	return a.table.Update(msg)
}

func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		a.searching = false
		a.search.Blur()
		return nil
	case "esc":
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		a.ctrl.SetSearch("")
		return nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != a.ctrl.SearchTerm() {
		a.ctrl.SetSearch(a.search.Value())
	}
	return cmd
}

// handleNavigate follows the controller. Reaching the list this way never
// reloads; the controller has already asked for that.
func (a *App) handleNavigate(msg productlist.NavigateMsg) tea.Cmd {
	switch msg.Route {
	case productlist.RouteLogin:
		a.email = ""
		a.leaveProducts()
		a.openAuth(authform.ModeLogin, "")
	case productlist.RouteProducts:
		a.leaveForm()
	}
	return nil
}

func (a *App) handleProductFetched(msg productFetchedMsg) tea.Cmd {
	a.fetching = false
	if a.screen != ScreenUpdate {
		return nil
	}
	if msg.err != nil {
		cmd := a.ctrl.Fail(msg.err, msgFetchFailed)
		if !client.IsUnauthorized(msg.err) {
			a.leaveForm()
		}
		return cmd
	}
	p := *msg.product
	a.productForm = productform.New(a.ctrl, validation.FormFromProduct(p), p.ID)
	a.resize()
	return nil
}

func (a *App) handleSessionChanged() tea.Cmd {
	// Our own login writes the file before AuthenticatedMsg arrives
	if a.auth != nil && a.auth.StoredToken() != "" && a.auth.StoredToken() == a.session.Token() {
		return nil
	}

	authed := session.Authenticated(a.session)
	switch {
	case !authed && a.screen.gated():
		a.email = ""
		a.leaveProducts()
		a.openAuth(authform.ModeLogin, "")
		return a.ctrl.Notify(msgSessionEnded, notify.SeverityInfo)
	case authed && !a.screen.gated() && !a.auth.Submitting():
		a.email = session.Email(a.session)
		return tea.Batch(a.ctrl.Notify(msgSessionStarted, notify.SeverityInfo), a.enterProducts())
	case authed:
		a.email = session.Email(a.session)
	}
	return nil
}

// openAuth shows the login or signup form
func (a *App) openAuth(mode authform.Mode, email string) {
	a.screen = ScreenLogin
	if mode == authform.ModeSignup {
		a.screen = ScreenSignup
	}
	a.auth = authform.New(mode, a.client, a.session)
	a.auth.SetEmail(email)
	a.resize()
}

// gate redirects to login when there is no session
func (a *App) gate() bool {
	if session.Authenticated(a.session) {
		return true
	}
	a.openAuth(authform.ModeLogin, "")
	return false
}

// enterProducts shows the list and loads it with the current filter
func (a *App) enterProducts() tea.Cmd {
	if !a.gate() {
		return nil
	}
	a.screen = ScreenProducts
	a.auth = nil
	a.resize()
	return a.ctrl.Load(a.ctrl.Filter())
}

func (a *App) openCreate() tea.Cmd {
	if !a.gate() {
		return nil
	}
	a.screen = ScreenCreate
	a.productForm = productform.New(a.ctrl, validation.ProductForm{}, "")
	a.resize()
	return nil
}

// openUpdate shows the update screen and fetches the product to prefill it
func (a *App) openUpdate(id client.ProductID) tea.Cmd {
	if !a.gate() {
		return nil
	}
	a.screen = ScreenUpdate
	a.productForm = nil
	a.fetching = true
	c := a.client
	return func() tea.Msg {
		p, err := c.GetProduct(context.Background(), id)
		return productFetchedMsg{product: p, err: err}
	}
}

// leaveForm returns to the list without reloading
func (a *App) leaveForm() {
	a.ctrl.CloseForm()
	a.productForm = nil
	a.fetching = false
	a.screen = ScreenProducts
}

func (a *App) leaveProducts() {
	a.productForm = nil
	a.filter = nil
	a.searching = false
	a.search.SetValue("")
	a.fetching = false
}

func (a *App) resize() {
	inner := a.frameWidth() - 6
	a.table.SetSize(inner, a.contentHeight()-4)
	a.search.Width = inner - 4
	if a.auth != nil {
		a.auth.SetWidth(min(inner-4, 60))
	}
	if a.productForm != nil {
		a.productForm.SetWidth(min(inner-4, 60))
	}
}

func (a *App) watchSession() tea.Cmd {
	if a.sessionFile == "" {
		return nil
	}
	ctx, path := a.ctx, a.sessionFile
	return func() tea.Msg {
		changes, err := session.Watch(ctx, path)
		if err != nil {
			slog.Warn("session watch unavailable", "path", path, "error", err)
			return nil
		}
		return watchStartedMsg{changes: changes}
	}
}

// waitForSession delivers the next change; it is re-armed after each one
func waitForSession(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return sessionChangedMsg{}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin, ScreenSignup:
		content = a.viewAuth()
	case ScreenProducts:
		content = a.viewProducts()
	case ScreenCreate, ScreenUpdate:
		content = a.viewForm()
	}

	toast := widgets.Toast(a.ctrl.Toast())
	if toast == "" {
		toast = " "
	}
	return a.wrapWithFrame(toast + "\n" + content)
}

func (a *App) viewAuth() string {
	if a.auth == nil {
		return ""
	}
	width := min(a.frameWidth()-4, 70)
	return styles.ActivePanel.Width(width).Render(a.auth.View())
}

func (a *App) viewForm() string {
	body := ""
	switch {
	case a.fetching:
		body = a.spinner.View() + " Loading product..."
	case a.productForm != nil:
		body = a.productForm.View()
	}
	return styles.ActivePanel.Width(a.frameWidth() - 4).Render(body)
}

func (a *App) viewProducts() string {
	if a.ctrl.Confirm().Open() {
		return a.viewConfirm()
	}
	if a.filter != nil {
		return styles.ActivePanel.Width(a.frameWidth() - 4).Render(a.filter.View())
	}

	var sb strings.Builder
	sb.WriteString(a.viewToolbar())
	sb.WriteString("\n")

	switch {
	case a.ctrl.State() == productlist.StateLoading && len(a.ctrl.Products()) == 0:
		sb.WriteString(a.spinner.View() + " Loading products...")
	default:
		if a.ctrl.State() != productlist.StateReady {
			sb.WriteString(a.spinner.View() + " ")
		}
		sb.WriteString(a.table.View())
	}
	return styles.Panel.Width(a.frameWidth() - 4).Render(sb.String())
}

// viewToolbar shows the search box and the active server-side filter
func (a *App) viewToolbar() string {
	var parts []string
	if a.searching || a.search.Value() != "" {
		parts = append(parts, a.search.View())
	}
	if f := a.ctrl.Filter(); !f.IsZero() {
		parts = append(parts, widgets.Muted(icons.Filter.String()+" "+f.Query().Encode()))
	}
	if len(parts) == 0 {
		return styles.Title.Render(icons.App.String() + " Products")
	}
	return strings.Join(parts, "   ")
}

func (a *App) viewConfirm() string {
	c := a.ctrl.Confirm()
	body := styles.StatusCritical.Render(icons.Delete.String()+" "+c.Title()) + "\n\n" +
		c.Prompt() + "\n\n" +
		styles.KeyStyle.Render("y") + " delete   " + styles.KeyStyle.Render("n") + " cancel"
	box := styles.Overlay.Render(body)
	return lipgloss.Place(a.frameWidth(), a.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := New(deps)
	app.ctx = ctx

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
