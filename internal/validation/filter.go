// ABOUTME: Validation for the optional server-side filter form
// ABOUTME: Blank fields are skipped; present numbers must parse and bounds must be ordered

package validation

import (
	"strings"

	"github.com/markalston/product-manager/internal/client"
	"github.com/shopspring/decimal"
)

// FilterFields is the display order of filter form fields
var FilterFields = []string{FieldCategory, FieldMinPrice, FieldMaxPrice, FieldMinRating, FieldMaxRating}

// FilterForm holds raw filter input
type FilterForm struct {
	Category  string
	MinPrice  string
	MaxPrice  string
	MinRating string
	MaxRating string
}

// ValidateFilter checks each present bound and their ordering
func ValidateFilter(f FilterForm) Errors {
	errs := Errors{}

	minPrice := optionalNumber(errs, FieldMinPrice, f.MinPrice, "Min price")
	maxPrice := optionalNumber(errs, FieldMaxPrice, f.MaxPrice, "Max price")
	minRating := optionalNumber(errs, FieldMinRating, f.MinRating, "Min rating")
	maxRating := optionalNumber(errs, FieldMaxRating, f.MaxRating, "Max rating")

	for _, r := range []struct {
		field string
		value decimal.NullDecimal
	}{{FieldMinRating, minRating}, {FieldMaxRating, maxRating}} {
		if r.value.Valid && (r.value.Decimal.IsNegative() || r.value.Decimal.GreaterThan(MaxRating)) {
			errs[r.field] = "Rating must be between 0 and 5"
		}
	}

	if minPrice.Valid && minPrice.Decimal.IsNegative() {
		errs[FieldMinPrice] = "Min price cannot be negative"
	}
	if minPrice.Valid && maxPrice.Valid && minPrice.Decimal.GreaterThan(maxPrice.Decimal) {
		errs[FieldMaxPrice] = "Max price must not be less than min price"
	}
	if minRating.Valid && maxRating.Valid && minRating.Decimal.GreaterThan(maxRating.Decimal) && !errs.Has(FieldMaxRating) {
		errs[FieldMaxRating] = "Max rating must not be less than min rating"
	}
	return errs
}

func optionalNumber(errs Errors, field, raw, label string) decimal.NullDecimal {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}
	}
	d, ok := parseNumber(raw)
	if !ok {
		errs[field] = label + " must be a number"
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Filter converts a valid form to request parameters
func (f FilterForm) Filter() (client.Filter, Errors) {
	errs := ValidateFilter(f)
	if !errs.OK() {
		return client.Filter{}, errs
	}
	out := client.Filter{Category: strings.TrimSpace(f.Category)}
	if strings.TrimSpace(f.MinPrice) != "" {
		out.MinPrice = decimal.NewNullDecimal(mustDecimal(f.MinPrice))
	}
	if strings.TrimSpace(f.MaxPrice) != "" {
		out.MaxPrice = decimal.NewNullDecimal(mustDecimal(f.MaxPrice))
	}
	if strings.TrimSpace(f.MinRating) != "" {
		out.MinRating = decimal.NewNullDecimal(mustDecimal(f.MinRating))
	}
	if strings.TrimSpace(f.MaxRating) != "" {
		out.MaxRating = decimal.NewNullDecimal(mustDecimal(f.MaxRating))
	}
	return out, errs
}
