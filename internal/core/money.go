// Package core provides the receipt domain model and money handling
// utilities.
//
// All monetary values are decimal.Decimal. Running totals are rounded to
// cents after every addition, and display formatting rounds half away from
// zero, so aggregate output always reconciles to the cent.
package core

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amount strings that do not carry exactly
// two decimal places.
var ErrInvalidAmount = errors.New("invalid amount")

var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// ParseAmount converts a plain dollar string to a decimal amount. Only the
// strict receipt form is accepted: one or more integer digits, a dot, exactly
// two fractional digits. No sign, no thousands separators, no comma.
//
// Examples:
//
//	ParseAmount("50.00")  -> 50.00, nil
//	ParseAmount("0.01")   -> 0.01, nil
//	ParseAmount("50")     -> error
//	ParseAmount("50,00")  -> error
//	ParseAmount("-50.00") -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AddRounded returns a+b rounded to cents. Aggregation folds run entirely
// through it so running totals never carry more than two decimals.
func AddRounded(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b).Round(2)
}

// FormatUSD renders an amount as a currency string, "$12.34". Values with
// more than two decimals round half away from zero, so 99.999 renders as
// "$100.00".
func FormatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
