// ABOUTME: Product list controller: collection, search, filter and mutation flows
// ABOUTME: Drives the API client through bubbletea commands and owns toast/confirm state

package productlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/notify"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/validation"
)

// State is the controller's lifecycle state
type State int

const (
	StateReady State = iota
	StateLoading
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSubmitting:
		return "submitting"
	default:
		return "ready"
	}
}

// Routes a controller can ask the shell to show
const (
	RouteLogin    = "login"
	RouteProducts = "products"
)

// NavigateMsg asks the shell to switch screens
type NavigateMsg struct {
	Route string
}

// Toast texts
const (
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgFixFields      = "Please fix the highlighted fields"
	MsgCreated        = "Product created successfully"
	MsgUpdated        = "Product updated successfully"
	MsgDeleted        = "Product deleted successfully"
	MsgSubmitFailed   = "Failed to submit product"
	MsgDeleteFailed   = "Failed to delete product"
	MsgLoggedOut      = "You have been logged out"
)

// API is the subset of the client the controller needs
type API interface {
	ListProducts(ctx context.Context, filter client.Filter) ([]client.Product, error)
	CreateProduct(ctx context.Context, input client.ProductInput) (*client.Product, error)
	UpdateProduct(ctx context.Context, id client.ProductID, input client.ProductInput) (*client.Product, error)
	DeleteProduct(ctx context.Context, id client.ProductID) error
}

// Options tune a controller
type Options struct {
	// ToastDuration is the auto-dismiss delay; zero keeps toasts up until replaced
	ToastDuration time.Duration
	// OnToast, when set, observes every toast shown
	OnToast func(message string, severity notify.Severity)
}

type loadedMsg struct {
	seq      int
	quiet    bool
	products []client.Product
	err      error
}

type submittedMsg struct {
	editID  client.ProductID
	product *client.Product
	err     error
}

type deletedMsg struct {
	target notify.Target
	err    error
}

// Controller holds the product list state for one screen
type Controller struct {
	api     API
	session session.Store
	onToast func(string, notify.Severity)

	state    State
	products []client.Product
	visible  []client.Product
	search   string
	filter   client.Filter

	form     validation.ProductForm
	editID   client.ProductID
	formOpen bool
	errors   validation.Errors

	toast   *notify.Toast
	confirm notify.Confirm

	seq     int
	applied int
}

// New creates a controller with an empty collection
func New(api API, store session.Store, opts Options) *Controller {
	return &Controller{
		api:     api,
		session: store,
		onToast: opts.OnToast,
		toast:   notify.NewToast(opts.ToastDuration),
		errors:  validation.Errors{},
		visible: []client.Product{},
	}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Products() []client.Product { return c.products }
func (c *Controller) Visible() []client.Product { return c.visible }
func (c *Controller) SearchTerm() string { return c.search }
func (c *Controller) Filter() client.Filter { return c.filter }
func (c *Controller) Toast() *notify.Toast { return c.toast }
func (c *Controller) Confirm() *notify.Confirm { return &c.confirm }
func (c *Controller) FieldErrors() validation.Errors { return c.errors }
func (c *Controller) Form() validation.ProductForm { return c.form }
func (c *Controller) EditID() client.ProductID { return c.editID }
func (c *Controller) FormOpen() bool { return c.formOpen }

// Load fetches the collection with filter applied server-side
func (c *Controller) Load(filter client.Filter) tea.Cmd {
	c.filter = filter
	return c.load(false)
}

// Reload repeats the last load without announcing the count
func (c *Controller) Reload() tea.Cmd {
	return c.load(true)
}

func (c *Controller) load(quiet bool) tea.Cmd {
	c.seq++
	seq := c.seq
	filter := c.filter
	c.state = StateLoading
	slog.Debug("loading products", "seq", seq, "filter", filter.Query().Encode())

	return func() tea.Msg {
		products, err := c.api.ListProducts(context.Background(), filter)
		return loadedMsg{seq: seq, quiet: quiet, products: products, err: err}
	}
}

// SetSearch re-derives the visible products without touching the network
func (c *Controller) SetSearch(term string) {
	c.search = term
	c.visible = Search(c.products, term)
}

// OpenForm shows the product form, prefilled for editing when editID is set
func (c *Controller) OpenForm(form validation.ProductForm, editID client.ProductID) {
	c.form = form
	c.editID = editID
	c.formOpen = true
	c.errors = validation.Errors{}
}

// CloseForm hides and resets the product form
func (c *Controller) CloseForm() {
	c.form = validation.ProductForm{}
	c.editID = ""
	c.formOpen = false
	c.errors = validation.Errors{}
}

// EditField records a form edit and clears that field's error
func (c *Controller) EditField(field, value string) {
	c.form.Set(field, value)
	c.errors.Clear(field)
}

// Submit validates form and creates or updates a product depending on editID.
// It is a no-op while a submission is in flight or a confirmation is pending.
func (c *Controller) Submit(form validation.ProductForm, editID client.ProductID) tea.Cmd {
	if c.state == StateSubmitting || c.confirm.Open() {
		return nil
	}
	c.form = form
	c.editID = editID
	c.state = StateSubmitting

	input, err := form.Input()
	if err != nil {
		c.errors = validation.ValidateProduct(form)
		c.state = StateReady
		return c.show(MsgFixFields, notify.SeverityError)
	}
	c.errors = validation.Errors{}

	return func() tea.Msg {
		var (
			product *client.Product
			err     error
		)
		if editID != "" {
			product, err = c.api.UpdateProduct(context.Background(), editID, input)
		} else {
			product, err = c.api.CreateProduct(context.Background(), input)
		}
		return submittedMsg{editID: editID, product: product, err: err}
	}
}

// RequestDelete opens the confirm dialog for p
func (c *Controller) RequestDelete(p client.Product) error {
	if c.state == StateSubmitting {
		return fmt.Errorf("cannot delete %s while a change is in progress", p.Label())
	}
	target := notify.Target{ID: p.ID.String(), Label: p.Label()}
	prompt := fmt.Sprintf("Are you sure you want to delete %q? This cannot be undone.", p.Label())
	return c.confirm.Request(target, "Delete product", prompt, func() tea.Cmd {
		return c.deleteCmd(target)
	})
}

// ConfirmDelete runs the pending delete
func (c *Controller) ConfirmDelete() tea.Cmd {
	return c.confirm.Confirm()
}

// CancelDelete drops the pending delete
func (c *Controller) CancelDelete() {
	c.confirm.Cancel()
}

func (c *Controller) deleteCmd(target notify.Target) tea.Cmd {
	c.state = StateSubmitting
	return func() tea.Msg {
		err := c.api.DeleteProduct(context.Background(), client.ProductID(target.ID))
		return deletedMsg{target: target, err: err}
	}
}

// Logout clears the session and returns to the login screen
func (c *Controller) Logout() tea.Cmd {
	if err := c.session.Clear(); err != nil {
		slog.Warn("clearing session", "error", err)
	}
	c.reset()
	return tea.Batch(c.show(MsgLoggedOut, notify.SeverityInfo), navigate(RouteLogin))
}

// Update applies results of commands issued by the controller
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		return c.handleLoaded(msg)
	case submittedMsg:
		return c.handleSubmitted(msg)
	case deletedMsg:
		return c.handleDeleted(msg)
	case notify.ExpiredMsg:
		c.toast.Update(msg)
	}
	return nil
}

func (c *Controller) handleLoaded(msg loadedMsg) tea.Cmd {
	if msg.seq < c.applied {
		slog.Debug("applying out-of-order load", "seq", msg.seq, "applied", c.applied)
	}
	c.applied = msg.seq
	if c.state == StateLoading {
		c.state = StateReady
	}

	if msg.err != nil {
		slog.Warn("loading products failed", "error", msg.err)
		return c.Fail(msg.err, "")
	}

	c.products = msg.products
	if c.products == nil {
		c.products = []client.Product{}
	}
	c.visible = Search(c.products, c.search)

	if msg.quiet {
		return nil
	}
	return c.show(countMessage(len(c.products)), notify.SeverityInfo)
}

func (c *Controller) handleSubmitted(msg submittedMsg) tea.Cmd {
	c.state = StateReady
	if msg.err != nil {
		slog.Warn("saving product failed", "id", msg.editID, "error", msg.err)
		return c.Fail(msg.err, MsgSubmitFailed)
	}

	text := MsgCreated
	if msg.editID != "" {
		text = MsgUpdated
	}
	c.CloseForm()
	return tea.Batch(c.show(text, notify.SeveritySuccess), c.Reload(), navigate(RouteProducts))
}

func (c *Controller) handleDeleted(msg deletedMsg) tea.Cmd {
	c.state = StateReady
	if msg.err != nil {
		slog.Warn("deleting product failed", "id", msg.target.ID, "error", msg.err)
		return c.Fail(msg.err, MsgDeleteFailed)
	}
	return tea.Batch(c.show(MsgDeleted, notify.SeveritySuccess), c.Reload())
}

// Fail reports err from any authenticated call. A 401 drops the session and
// sends the user to login; anything else becomes an error toast with the
// server's message or fallback.
func (c *Controller) Fail(err error, fallback string) tea.Cmd {
	if client.IsUnauthorized(err) {
		return c.unauthorized()
	}
	return c.show(client.Message(err, fallback), notify.SeverityError)
}

// Notify shows a toast on behalf of the surrounding screens
func (c *Controller) Notify(message string, severity notify.Severity) tea.Cmd {
	return c.show(message, severity)
}

func (c *Controller) unauthorized() tea.Cmd {
	if err := c.session.Clear(); err != nil {
		slog.Warn("clearing session", "error", err)
	}
	c.reset()
	return tea.Batch(c.show(MsgSessionExpired, notify.SeverityError), navigate(RouteLogin))
}

func (c *Controller) reset() {
	c.state = StateReady
	c.products = nil
	c.visible = []client.Product{}
	c.confirm.Cancel()
	c.CloseForm()
}

func (c *Controller) show(message string, severity notify.Severity) tea.Cmd {
	if c.onToast != nil {
		c.onToast(message, severity)
	}
	return c.toast.Show(message, severity)
}

func navigate(route string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

func countMessage(n int) string {
	if n == 1 {
		return "Loaded 1 product"
	}
	return fmt.Sprintf("Loaded %d products", n)
}
