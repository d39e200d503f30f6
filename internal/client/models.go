// ABOUTME: Wire types for products, filters and authentication
// ABOUTME: Prices and ratings are decimals encoded as JSON numbers

package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend expects numeric JSON for price and rating
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductID is an opaque identifier. The backend may send a number or a string.
type ProductID string

// UnmarshalJSON accepts numeric and string identifiers
func (id *ProductID) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid product id %s", text)
	}
	*id = ProductID(n.String())
	return nil
}

// MarshalJSON writes canonical integer ids as numbers and everything else,
// including "007" or "+5", as strings
func (id ProductID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ProductID) String() string {
	return string(id)
}

// Product is a product record as returned by the backend
type Product struct {
	ID          ProductID       `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      decimal.Decimal `json:"rating"`
}

// Label returns a short display name for confirmations
func (p Product) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return "product " + p.ID.String()
}

// ProductInput is the body for create and update requests
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      decimal.Decimal `json:"rating"`
}

// Input returns the editable fields of p
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
	}
}

// Filter holds the optional server-side filter parameters
type Filter struct {
	Category  string
	MinPrice  decimal.NullDecimal
	MaxPrice  decimal.NullDecimal
	MinRating decimal.NullDecimal
	MaxRating decimal.NullDecimal
}

// IsZero reports whether no filter parameter is set
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Category) == "" &&
		!f.MinPrice.Valid && !f.MaxPrice.Valid &&
		!f.MinRating.Valid && !f.MaxRating.Valid
}

// Query encodes the set parameters; unset ones are omitted
func (f Filter) Query() url.Values {
	q := url.Values{}
	if c := strings.TrimSpace(f.Category); c != "" {
		q.Set("category", c)
	}
	setDecimal(q, "minPrice", f.MinPrice)
	setDecimal(q, "maxPrice", f.MaxPrice)
	setDecimal(q, "minRating", f.MinRating)
	setDecimal(q, "maxRating", f.MaxRating)
	return q
}

func setDecimal(q url.Values, key string, d decimal.NullDecimal) {
	if d.Valid {
		q.Set(key, d.Decimal.String())
	}
}

// Credentials is the body for login and signup
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token string `json:"token"`
}
