// ABOUTME: Tests for the filter panel's value handling
// ABOUTME: Exercises prefill and completion without driving huh keystrokes

package filterform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/validation"
	"github.com/shopspring/decimal"
)

func TestNew_PrefillsFromCurrentFilter(t *testing.T) {
	f := New(client.Filter{
		Category: "tools",
		MaxPrice: decimal.NewNullDecimal(decimal.RequireFromString("25.5")),
	})

	want := validation.FilterForm{Category: "tools", MaxPrice: "25.5"}
	if got := f.Values(); got != want {
		t.Errorf("Values() = %+v, want %+v", got, want)
	}
}

func TestFinish_Applies(t *testing.T) {
	f := New(client.Filter{})
	f.values = validation.FilterForm{Category: "home", MinRating: "3"}

	msg := f.finish()()

	applied, ok := msg.(AppliedMsg)
	if !ok {
		t.Fatalf("got %T, want AppliedMsg", msg)
	}
	q := applied.Filter.Query()
	if q.Get("category") != "home" || q.Get("minRating") != "3" {
		t.Errorf("query = %v", q)
	}
}

func TestFinish_InvertedBounds(t *testing.T) {
	f := New(client.Filter{})
	f.values = validation.FilterForm{MinPrice: "50", MaxPrice: "10"}

	msg := f.finish()()

	invalid, ok := msg.(InvalidMsg)
	if !ok {
		t.Fatalf("got %T, want InvalidMsg", msg)
	}
	if invalid.Message != "Max price must not be less than min price" {
		t.Errorf("message = %q", invalid.Message)
	}
}

func TestOptionalNumber(t *testing.T) {
	for _, ok := range []string{"", "  ", "4", "4.25", "-1"} {
		if err := optionalNumber(ok); err != nil {
			t.Errorf("optionalNumber(%q) = %v", ok, err)
		}
	}
	if err := optionalNumber("cheap"); err == nil {
		t.Error("expected error for text")
	}
}

func TestEscCancels(t *testing.T) {
	f := New(client.Filter{})
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("esc should cancel")
	}
}
