// ABOUTME: Pure form validators for login, signup, product and filter forms
// ABOUTME: Each returns a field->message map; a missing key means the field is valid

package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field names, matching the JSON names the backend uses
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldCategory        = "category"
	FieldPrice           = "price"
	FieldRating          = "rating"
	FieldMinPrice        = "minPrice"
	FieldMaxPrice        = "maxPrice"
	FieldMinRating       = "minRating"
	FieldMaxRating       = "maxRating"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// MaxRating is the inclusive upper bound for ratings
var MaxRating = decimal.NewFromInt(5)

// emailPattern is a deliberately loose text@text.text shape
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps a field name to a human-readable message
type Errors map[string]string

// OK reports whether no field failed
func (e Errors) OK() bool {
	return len(e) == 0
}

// Has reports whether field has an error
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Clear drops the error for field as soon as the user edits it.
// The field is not re-validated until the next submit.
func (e Errors) Clear(field string) {
	delete(e, field)
}

// Ordered returns the messages in display order for the given fields
func (e Errors) Ordered(fields []string) []string {
	var out []string
	for _, f := range fields {
		if msg, ok := e[f]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// LoginForm holds raw login input
type LoginForm struct {
	Email    string
	Password string
}

// SignupForm holds raw signup input
type SignupForm struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateLogin checks email shape and password length
func ValidateLogin(f LoginForm) Errors {
	errs := Errors{}
	validateEmail(errs, f.Email)
	validatePassword(errs, f.Password)
	return errs
}

// ValidateSignup checks the login rules plus password confirmation
func ValidateSignup(f SignupForm) Errors {
	errs := Errors{}
	validateEmail(errs, f.Email)
	validatePassword(errs, f.Password)

	switch {
	case f.ConfirmPassword == "":
		errs[FieldConfirmPassword] = "Please confirm your password"
	case f.ConfirmPassword != f.Password:
		errs[FieldConfirmPassword] = "Passwords do not match"
	}
	return errs
}

func validateEmail(errs Errors, email string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Please enter a valid email address"
	}
}

func validatePassword(errs Errors, password string) {
	switch {
	case password == "":
		errs[FieldPassword] = "Password is required"
	case utf8.RuneCountInString(password) < MinPasswordLength:
		errs[FieldPassword] = "Password must be at least 6 characters"
	}
}

// parseNumber trims and parses s; ok is false for blank or non-numeric input
func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
