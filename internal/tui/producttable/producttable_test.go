// ABOUTME: Tests for the product table
// ABOUTME: Covers selection, cursor retention and empty state

package producttable

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/product-manager/internal/client"
	"github.com/shopspring/decimal"
)

func sample() []client.Product {
	return []client.Product{
		{ID: "1", Name: "Lamp", Category: "home", Description: "Warm", Price: decimal.NewFromInt(20), Rating: decimal.NewFromInt(4)},
		{ID: "2", Name: "Hammer", Category: "tools", Description: "Claw", Price: decimal.NewFromInt(12), Rating: decimal.NewFromInt(3)},
		{ID: "3", Name: "Kettle", Category: "kitchen", Description: "Fast", Price: decimal.NewFromInt(35), Rating: decimal.NewFromInt(5)},
	}
}

func TestTable_EmptyState(t *testing.T) {
	tbl := New(80, 10)
	if _, ok := tbl.Selected(); ok {
		t.Error("empty table has no selection")
	}
	if !strings.Contains(tbl.View(), "No products found") {
		t.Error("expected empty-state text")
	}
}

func TestTable_SelectionMoves(t *testing.T) {
	tbl := New(80, 10)
	tbl.SetProducts(sample())

	p, ok := tbl.Selected()
	if !ok || p.ID != "1" {
		t.Fatalf("initial selection = %v %v", p.ID, ok)
	}

	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p, _ := tbl.Selected(); p.ID != "2" {
		t.Errorf("after down = %s, want 2", p.ID)
	}
}

func TestTable_KeepsSelectionAcrossReload(t *testing.T) {
	tbl := New(80, 10)
	tbl.SetProducts(sample())
	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})

	// product 1 deleted; product 3 is now at index 1
	tbl.SetProducts(sample()[1:])

	if p, _ := tbl.Selected(); p.ID != "3" {
		t.Errorf("selection = %s, want 3", p.ID)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d", tbl.Len())
	}
}

func TestTable_WideViewShowsDetail(t *testing.T) {
	tbl := New(120, 10)
	tbl.SetProducts(sample())

	view := tbl.View()
	if !strings.Contains(view, "Warm") {
		t.Error("detail pane should show the description")
	}
	if !strings.Contains(view, "Hammer") {
		t.Error("table should list products")
	}
}
