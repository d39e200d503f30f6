// ABOUTME: Server-side filter panel as a huh form inside bubbletea
// ABOUTME: Emits the parsed filter on completion or a message explaining why not

package filterform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/tui/styles"
	"github.com/markalston/product-manager/internal/validation"
	"github.com/shopspring/decimal"
)

// AppliedMsg carries the filter to load with
type AppliedMsg struct {
	Filter client.Filter
}

// InvalidMsg is sent when the bounds do not make sense together
type InvalidMsg struct {
	Message string
}

// CancelledMsg is sent when the panel is closed without applying
type CancelledMsg struct{}

// Form is the filter panel
type Form struct {
	form   *huh.Form
	values validation.FilterForm
	done   bool
}

// New opens the panel prefilled with current
func New(current client.Filter) *Form {
	f := &Form{values: formFrom(current)}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Category").
				Description("Exact category name, blank for any").
				Value(&f.values.Category),
			huh.NewInput().
				Title("Min price").
				Placeholder("any").
				Value(&f.values.MinPrice).
				Validate(optionalNumber),
			huh.NewInput().
				Title("Max price").
				Placeholder("any").
				Value(&f.values.MaxPrice).
				Validate(optionalNumber),
			huh.NewInput().
				Title("Min rating").
				Placeholder("0-5").
				Value(&f.values.MinRating).
				Validate(optionalNumber),
			huh.NewInput().
				Title("Max rating").
				Placeholder("0-5").
				Value(&f.values.MaxRating).
				Validate(optionalNumber),
		).Title("Filter products").
			Description("Applied by the server; leave a field blank to ignore it"),
	).WithTheme(styles.HuhTheme()).
		WithShowHelp(false)
	return f
}

func formFrom(f client.Filter) validation.FilterForm {
	str := func(d decimal.NullDecimal) string {
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	}
	return validation.FilterForm{
		Category:  f.Category,
		MinPrice:  str(f.MinPrice),
		MaxPrice:  str(f.MaxPrice),
		MinRating: str(f.MinRating),
		MaxRating: str(f.MaxRating),
	}
}

func optionalNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

// Values returns the raw field values
func (f *Form) Values() validation.FilterForm {
	return f.values
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards to the huh form; esc cancels
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}

	if f.form.State == huh.StateCompleted && !f.done {
		f.done = true
		return f, f.finish()
	}
	return f, cmd
}

// finish validates the collected values as a whole
func (f *Form) finish() tea.Cmd {
	filter, errs := f.values.Filter()
	if !errs.OK() {
		text := strings.Join(errs.Ordered(validation.FilterFields), "; ")
		return func() tea.Msg { return InvalidMsg{Message: text} }
	}
	return func() tea.Msg { return AppliedMsg{Filter: filter} }
}

// View renders the panel
func (f *Form) View() string {
	return f.form.View() + "\n" + styles.Help.Render("tab moves between fields, enter on the last field applies, esc closes")
}
