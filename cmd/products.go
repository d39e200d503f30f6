// ABOUTME: Product commands: list, get, create, update and delete
// ABOUTME: Non-interactive equivalents of the TUI screens for scripts

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/productlist"
	"github.com/markalston/product-manager/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelFetches bounds concurrent requests for products get
const maxParallelFetches = 4

var (
	listFilter validation.FilterForm
	listSearch string

	productValues validation.ProductForm
	deleteYes     bool
)

// productFlags maps product flag names to form fields
var productFlags = map[string]string{
	"name":        validation.FieldName,
	"description": validation.FieldDescription,
	"category":    validation.FieldCategory,
	"price":       validation.FieldPrice,
	"rating":      validation.FieldRating,
}

// confirmDelete asks before deleting. Tests replace it.
var confirmDelete = func(label string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %s?", label)).
		Description("Are you sure you want to delete this product?").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "List and manage products",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products. Filters are applied by the backend, --search is applied locally
to name, description and category.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runList(cmd.Context(), cmd.OutOrStdout()))
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>...",
	Short: "Show one or more products",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runGet(cmd.Context(), cmd.OutOrStdout(), toIDs(args)))
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runCreate(cmd.Context(), cmd.OutOrStdout()))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a product",
	Long:  `Update a product. Only the fields passed as flags change; the rest keep their current values.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changes := map[string]string{}
		for flag, field := range productFlags {
			if cmd.Flags().Changed(flag) {
				changes[field] = productValues.Get(field)
			}
		}
		exitWith(runUpdate(cmd.Context(), cmd.OutOrStdout(), client.ProductID(args[0]), changes))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runDelete(cmd.Context(), cmd.OutOrStdout(), client.ProductID(args[0])))
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)

	lf := listCmd.Flags()
	lf.StringVar(&listFilter.Category, "category", "", "Only products in this category")
	lf.StringVar(&listFilter.MinPrice, "min-price", "", "Minimum price")
	lf.StringVar(&listFilter.MaxPrice, "max-price", "", "Maximum price")
	lf.StringVar(&listFilter.MinRating, "min-rating", "", "Minimum rating (0-5)")
	lf.StringVar(&listFilter.MaxRating, "max-rating", "", "Maximum rating (0-5)")
	lf.StringVar(&listSearch, "search", "", "Case-insensitive text search")

	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		f := c.Flags()
		f.StringVar(&productValues.Name, "name", "", "Product name")
		f.StringVar(&productValues.Description, "description", "", "Product description")
		f.StringVar(&productValues.Category, "category", "", "Product category")
		f.StringVar(&productValues.Price, "price", "", "Price, greater than 0")
		f.StringVar(&productValues.Rating, "rating", "", "Rating between 0 and 5")
	}

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

func toIDs(args []string) []client.ProductID {
	ids := make([]client.ProductID, len(args))
	for i, a := range args {
		ids[i] = client.ProductID(a)
	}
	return ids
}

// runList fetches the filtered list and applies the local search
func runList(ctx context.Context, w io.Writer) int {
	filter, errs := listFilter.Filter()
	if !errs.OK() {
		printFieldErrors(w, errs, validation.FilterFields)
		return exitFailed
	}

	store := newStore()
	if !requireSession(w, store) {
		return exitError
	}

	products, err := newClient(store).ListProducts(ctx, filter)
	if err != nil {
		return reportError(w, store, err, "Failed to fetch products")
	}
	products = productlist.Search(products, listSearch)

	if IsJSONOutput() {
		return writeJSON(w, products)
	}
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return exitOK
	}
	fmt.Fprintln(w, formatProductTable(products))
	return exitOK
}

// runGet fetches every id in parallel and prints them in argument order
func runGet(ctx context.Context, w io.Writer, ids []client.ProductID) int {
	store := newStore()
	if !requireSession(w, store) {
		return exitError
	}
	c := newClient(store)

	products := make([]client.Product, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, id := range ids {
		g.Go(func() error {
			p, err := c.GetProduct(gctx, id)
			if client.IsNotFound(err) {
				return fmt.Errorf("product %s not found", id)
			}
			if err != nil {
				return err
			}
			products[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reportError(w, store, err, "Error fetching product")
	}

	if IsJSONOutput() {
		if len(products) == 1 {
			return writeJSON(w, products[0])
		}
		return writeJSON(w, products)
	}
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, formatProductHuman(p))
	}
	return exitOK
}

func runCreate(ctx context.Context, w io.Writer) int {
	input, ok := productInput(w, productValues)
	if !ok {
		return exitFailed
	}

	store := newStore()
	if !requireSession(w, store) {
		return exitError
	}

	p, err := newClient(store).CreateProduct(ctx, input)
	if err != nil {
		return reportError(w, store, err, productlist.MsgSubmitFailed)
	}
	return printSaved(w, productlist.MsgCreated, p)
}

// runUpdate fetches the product, applies changes on top and saves it
func runUpdate(ctx context.Context, w io.Writer, id client.ProductID, changes map[string]string) int {
	if len(changes) == 0 {
		fmt.Fprintln(w, "Error: nothing to update. Pass at least one of --name, --description, --category, --price, --rating.")
		return exitFailed
	}

	store := newStore()
	if !requireSession(w, store) {
		return exitError
	}
	c := newClient(store)

	current, err := c.GetProduct(ctx, id)
	if err != nil {
		return reportError(w, store, err, "Error fetching product")
	}

	form := validation.FormFromProduct(*current)
	for field, value := range changes {
		form.Set(field, value)
	}
	input, ok := productInput(w, form)
	if !ok {
		return exitFailed
	}

	p, err := c.UpdateProduct(ctx, id, input)
	if err != nil {
		return reportError(w, store, err, productlist.MsgSubmitFailed)
	}
	return printSaved(w, productlist.MsgUpdated, p)
}

// runDelete confirms unless --yes was given, then deletes
func runDelete(ctx context.Context, w io.Writer, id client.ProductID) int {
	store := newStore()
	if !requireSession(w, store) {
		return exitError
	}
	c := newClient(store)

	if !deleteYes {
		p, err := c.GetProduct(ctx, id)
		if err != nil {
			return reportError(w, store, err, "Error fetching product")
		}
		ok, err := confirmDelete(p.Label())
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled")
			return exitFailed
		}
	}

	if err := c.DeleteProduct(ctx, id); err != nil {
		return reportError(w, store, err, productlist.MsgDeleteFailed)
	}
	if IsJSONOutput() {
		return writeJSON(w, map[string]interface{}{"id": id, "deleted": true})
	}
	fmt.Fprintf(w, "✓ %s\n", productlist.MsgDeleted)
	return exitOK
}

// productInput validates a form, printing field errors when it fails
func productInput(w io.Writer, form validation.ProductForm) (client.ProductInput, bool) {
	input, err := form.Input()
	if err != nil {
		var fe *validation.FormError
		if errors.As(err, &fe) {
			printFieldErrors(w, fe.Errors, fe.Fields)
		} else {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return client.ProductInput{}, false
	}
	return input, true
}

func printSaved(w io.Writer, message string, p *client.Product) int {
	if IsJSONOutput() {
		return writeJSON(w, p)
	}
	fmt.Fprintf(w, "✓ %s\n\n%s\n", message, formatProductHuman(*p))
	return exitOK
}

// formatProductHuman formats a single product for human readability
func formatProductHuman(p client.Product) string {
	return fmt.Sprintf(`ID:          %s
Name:        %s
Description: %s
Category:    %s
Price:       %s
Rating:      %s`, p.ID, p.Name, p.Description, p.Category, p.Price.StringFixed(2), p.Rating.StringFixed(1))
}

// formatProductTable renders products as a bordered table
func formatProductTable(products []client.Product) string {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{p.ID.String(), p.Name, p.Category, p.Price.StringFixed(2), p.Rating.StringFixed(1)}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "PRICE", "RATING").
		Rows(rows...)
	return fmt.Sprintf("%s\n%d product(s)", t.String(), len(products))
}
