// ABOUTME: Create and update product screen bound to the list controller
// ABOUTME: Field edits clear their error; submit goes through the controller

package productform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/productlist"
	"github.com/markalston/product-manager/internal/tui/fields"
	"github.com/markalston/product-manager/internal/tui/icons"
	"github.com/markalston/product-manager/internal/tui/styles"
	"github.com/markalston/product-manager/internal/validation"
)

// CancelledMsg is sent when the user leaves the form without saving
type CancelledMsg struct{}

// Form edits one product
type Form struct {
	ctrl   *productlist.Controller
	editID client.ProductID
	fields *fields.Set
}

// New opens the form on ctrl. A non-empty editID makes it an update form.
func New(ctrl *productlist.Controller, initial validation.ProductForm, editID client.ProductID) *Form {
	f := &Form{
		ctrl:   ctrl,
		editID: editID,
		fields: fields.New(
			fields.Spec{Key: validation.FieldName, Label: "Name", Placeholder: "Desk lamp"},
			fields.Spec{Key: validation.FieldDescription, Label: "Description", Placeholder: "What is it?"},
			fields.Spec{Key: validation.FieldCategory, Label: "Category", Placeholder: "home"},
			fields.Spec{Key: validation.FieldPrice, Label: "Price", Placeholder: "19.99", CharLimit: 16},
			fields.Spec{Key: validation.FieldRating, Label: "Rating (0-5)", Placeholder: "4.5", CharLimit: 8},
		),
	}
	for _, key := range validation.ProductFields {
		f.fields.SetValue(key, initial.Get(key))
	}
	ctrl.OpenForm(initial, editID)
	return f
}

func (f *Form) EditID() client.ProductID { return f.editID }

// Editing reports whether this form updates an existing product
func (f *Form) Editing() bool {
	return f.editID != ""
}

// Values collects the current text of every field
func (f *Form) Values() validation.ProductForm {
	var form validation.ProductForm
	for _, key := range validation.ProductFields {
		form.Set(key, f.fields.Value(key))
	}
	return form
}

// SetWidth resizes the inputs
func (f *Form) SetWidth(width int) {
	f.fields.SetWidth(width)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return nil
}

// Update handles keys; ctrl+s or enter on the last field submits
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			f.ctrl.CloseForm()
			return f, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+s":
			return f, f.submit()
		case "enter":
			if f.fields.OnLast() {
				return f, f.submit()
			}
			return f, f.fields.Next()
		}
	}

	changed, cmd := f.fields.Update(msg)
	if changed != "" {
		f.ctrl.EditField(changed, f.fields.Value(changed))
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	cmd := f.ctrl.Submit(f.Values(), f.editID)
	errs := f.ctrl.FieldErrors()
	for _, key := range validation.ProductFields {
		if errs.Has(key) {
			return tea.Batch(cmd, f.fields.FocusKey(key))
		}
	}
	return cmd
}

// View renders the form with the controller's field errors
func (f *Form) View() string {
	var sb strings.Builder

	title := icons.Add.String() + " New product"
	if f.Editing() {
		title = icons.Edit.String() + " Edit product #" + f.editID.String()
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(f.fields.View(f.ctrl.FieldErrors()))
	sb.WriteString("\n")

	if f.ctrl.State() == productlist.StateSubmitting {
		sb.WriteString(styles.Subtitle.Render("Saving..."))
	} else {
		sb.WriteString(styles.Help.Render("enter on the last field or ctrl+s saves, esc cancels"))
	}
	return sb.String()
}
