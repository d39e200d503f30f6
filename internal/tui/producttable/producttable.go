// ABOUTME: Product list table built on bubbles/table with a detail pane
// ABOUTME: Keeps the selection on the same product id across reloads

package producttable

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/tui/styles"
	"github.com/markalston/product-manager/internal/tui/widgets"
)

// minDetailWidth is the narrowest terminal that still gets a detail pane
const minDetailWidth = 100

// Table shows products and tracks the selected one
type Table struct {
	model    table.Model
	products []client.Product
	width    int
	height   int
}

// New creates an empty table
func New(width, height int) *Table {
	t := &Table{
		model: table.New(
			table.WithColumns(columns(width)),
			table.WithFocused(true),
		),
	}
	t.model.SetStyles(styles.TableStyles())
	t.SetSize(width, height)
	return t
}

func columns(width int) []table.Column {
	// id, price and rating are fixed; name and category share the rest
	fixed := 6 + 12 + 8
	rest := width - fixed - 8
	if rest < 30 {
		rest = 30
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: rest * 3 / 5},
		{Title: "Category", Width: rest * 2 / 5},
		{Title: "Price", Width: 12},
		{Title: "Rating", Width: 8},
	}
}

// SetSize resizes the table to fit width x height
func (t *Table) SetSize(width, height int) {
	t.width = width
	t.height = height
	if height < 3 {
		height = 3
	}
	t.model.SetColumns(columns(t.tableWidth()))
	t.model.SetWidth(t.tableWidth())
	t.model.SetHeight(height)
}

func (t *Table) tableWidth() int {
	if t.width >= minDetailWidth {
		return t.width * 2 / 3
	}
	return t.width
}

// SetProducts replaces the rows, keeping the cursor on the same id if present
func (t *Table) SetProducts(products []client.Product) {
	var selected client.ProductID
	if p, ok := t.Selected(); ok {
		selected = p.ID
	}

	t.products = products
	rows := make([]table.Row, len(products))
	cursor := 0
	for i, p := range products {
		rows[i] = table.Row{
			p.ID.String(),
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			p.Rating.StringFixed(1),
		}
		if p.ID == selected {
			cursor = i
		}
	}
	t.model.SetRows(rows)
	if len(rows) > 0 {
		t.model.SetCursor(cursor)
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.products)
}

// Selected returns the product under the cursor
func (t *Table) Selected() (client.Product, bool) {
	i := t.model.Cursor()
	if i < 0 || i >= len(t.products) {
		return client.Product{}, false
	}
	return t.products[i], true
}

// Update handles navigation keys
func (t *Table) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return cmd
}

// View renders the table and, on wide terminals, the detail pane
func (t *Table) View() string {
	if len(t.products) == 0 {
		return styles.Empty.Render("No products found. Press n to add one, or clear the search and filter.")
	}

	tbl := t.model.View()
	if t.width < minDetailWidth {
		return tbl
	}
	detail := lipgloss.NewStyle().
		Width(t.width - t.tableWidth() - 4).
		PaddingLeft(2).
		Render(t.detailView())
	return lipgloss.JoinHorizontal(lipgloss.Top, tbl, detail)
}

func (t *Table) detailView() string {
	p, ok := t.Selected()
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(p.Name))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(p.Category))
	sb.WriteString("\n")
	sb.WriteString(p.Description)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Price   %s\n", styles.ValueStyle.Render(p.Price.StringFixed(2))))
	sb.WriteString(fmt.Sprintf("Rating  %s\n", widgets.Rating(p.Rating)))
	return sb.String()
}
