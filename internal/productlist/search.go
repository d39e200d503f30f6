// ABOUTME: Client-side search over an already loaded product collection
// ABOUTME: Case-insensitive substring match on name, description and category

package productlist

import (
	"strings"

	"github.com/markalston/product-manager/internal/client"
)

// Search returns the products matching term. A blank term matches everything.
// The result never aliases products.
func Search(products []client.Product, term string) []client.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]client.Product, 0, len(products))
	for _, p := range products {
		if term == "" || matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p client.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}
