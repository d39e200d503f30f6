// ABOUTME: Tests for the product form screen
// ABOUTME: Runs against the fake backend through the list controller

package productform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/apitest"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/productlist"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/validation"
)

func newController(t *testing.T) (*apitest.Server, *productlist.Controller) {
	t.Helper()
	srv := apitest.New(t)
	store := session.NewMemoryStore(srv.IssueToken("ada@example.com"))
	return srv, productlist.New(client.New(srv.APIURL(), store), store, productlist.Options{})
}

func TestForm_PrefillsForEdit(t *testing.T) {
	_, ctrl := newController(t)
	initial := validation.ProductForm{Name: "Lamp", Description: "Desk", Category: "home", Price: "10", Rating: "4"}

	f := New(ctrl, initial, "7")

	if got := f.Values(); got != initial {
		t.Errorf("Values() = %+v, want %+v", got, initial)
	}
	if !f.Editing() || !ctrl.FormOpen() || ctrl.EditID() != "7" {
		t.Error("controller should hold an open edit form")
	}
	if !strings.Contains(f.View(), "Edit product #7") {
		t.Error("edit title missing")
	}
}

func TestForm_InvalidSubmitShowsErrorsWithoutNetwork(t *testing.T) {
	srv, ctrl := newController(t)
	f := New(ctrl, validation.ProductForm{Name: "Lamp"}, "")

	f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if srv.TotalCalls() != 0 {
		t.Error("invalid form reached the network")
	}
	view := f.View()
	for _, want := range []string{"Description is required", "Price is required", "Rating is required"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestForm_TypingClearsFieldError(t *testing.T) {
	_, ctrl := newController(t)
	f := New(ctrl, validation.ProductForm{}, "")
	f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	// focus moved to the first failing field, name
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})

	if ctrl.FieldErrors().Has(validation.FieldName) {
		t.Error("name error should clear once edited")
	}
	if !ctrl.FieldErrors().Has(validation.FieldPrice) {
		t.Error("price error should remain")
	}
}

func TestForm_ValidSubmitCreates(t *testing.T) {
	srv, ctrl := newController(t)
	f := New(ctrl, validation.ProductForm{Name: "Lamp", Description: "Desk", Category: "home", Price: "10", Rating: "4"}, "")

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	ctrl.Update(cmd())

	if srv.Calls(apitest.RouteCreateProduct) != 1 {
		t.Error("expected a create call")
	}
	if ctrl.FormOpen() {
		t.Error("form should close after success")
	}
}

func TestForm_EnterAdvancesUntilLastField(t *testing.T) {
	srv, ctrl := newController(t)
	f := New(ctrl, validation.ProductForm{}, "")

	for i := 0; i < len(validation.ProductFields)-1; i++ {
		f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if srv.TotalCalls() != 0 || len(ctrl.FieldErrors()) != 0 {
		t.Fatal("enter before the last field must not submit")
	}

	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(ctrl.FieldErrors()) == 0 {
		t.Error("enter on the last field should submit")
	}
}

func TestForm_EscCancels(t *testing.T) {
	_, ctrl := newController(t)
	f := New(ctrl, validation.ProductForm{}, "")

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("esc should cancel")
	}
	if ctrl.FormOpen() {
		t.Error("controller form should be closed")
	}
}
