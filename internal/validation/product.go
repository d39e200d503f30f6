// ABOUTME: Validation and conversion for the product create/update form
// ABOUTME: Price must be > 0 and rating must lie in [0,5] inclusive

package validation

import (
	"fmt"
	"strings"

	"github.com/markalston/product-manager/internal/client"
	"github.com/shopspring/decimal"
)

// ProductFields is the display order of product form fields
var ProductFields = []string{FieldName, FieldDescription, FieldCategory, FieldPrice, FieldRating}

// ProductForm holds raw product input as typed by the user
type ProductForm struct {
	Name        string
	Description string
	Category    string
	Price       string
	Rating      string
}

// Get returns the raw value of field
func (f ProductForm) Get(field string) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldDescription:
		return f.Description
	case FieldCategory:
		return f.Category
	case FieldPrice:
		return f.Price
	case FieldRating:
		return f.Rating
	}
	return ""
}

// Set stores value into field; unknown fields are ignored
func (f *ProductForm) Set(field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldDescription:
		f.Description = value
	case FieldCategory:
		f.Category = value
	case FieldPrice:
		f.Price = value
	case FieldRating:
		f.Rating = value
	}
}

// FormFromProduct prefills a form for editing p
func FormFromProduct(p client.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.String(),
		Rating:      p.Rating.String(),
	}
}

// ValidateProduct runs every product rule and reports all failing fields
func ValidateProduct(f ProductForm) Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = "Product name is required"
	}
	if strings.TrimSpace(f.Description) == "" {
		errs[FieldDescription] = "Description is required"
	}
	if strings.TrimSpace(f.Category) == "" {
		errs[FieldCategory] = "Category is required"
	}

	if strings.TrimSpace(f.Price) == "" {
		errs[FieldPrice] = "Price is required"
	} else if price, ok := parseNumber(f.Price); !ok {
		errs[FieldPrice] = "Price must be a number"
	} else if !price.IsPositive() {
		errs[FieldPrice] = "Price must be greater than 0"
	}

	if strings.TrimSpace(f.Rating) == "" {
		errs[FieldRating] = "Rating is required"
	} else if rating, ok := parseNumber(f.Rating); !ok {
		errs[FieldRating] = "Rating must be a number"
	} else if rating.IsNegative() || rating.GreaterThan(MaxRating) {
		errs[FieldRating] = "Rating must be between 0 and 5"
	}

	return errs
}

// Input converts a form to a request body. It validates first and returns
// the field errors as an error when the form is not valid.
func (f ProductForm) Input() (client.ProductInput, error) {
	if errs := ValidateProduct(f); !errs.OK() {
		return client.ProductInput{}, &FormError{Errors: errs, Fields: ProductFields}
	}
	price, _ := parseNumber(f.Price)
	rating, _ := parseNumber(f.Rating)
	return client.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		Price:       price,
		Rating:      rating,
	}, nil
}

// FormError carries field errors through an error return
type FormError struct {
	Errors Errors
	Fields []string
}

func (e *FormError) Error() string {
	msgs := e.Errors.Ordered(e.Fields)
	if len(msgs) == 0 {
		return "invalid form"
	}
	return fmt.Sprintf("invalid form: %s", strings.Join(msgs, "; "))
}

// mustDecimal is used by callers holding an already validated value
func mustDecimal(s string) decimal.Decimal {
	d, _ := parseNumber(s)
	return d
}
