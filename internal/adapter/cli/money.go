package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnparsableAmount is returned for amount input that is not a number.
var ErrUnparsableAmount = errors.New("amount is not a number")

var (
	// 1234, 1234.5, 1234,56
	plainAmountRegex = regexp.MustCompile(`^-?[0-9]{1,15}([.,][0-9]{1,2})?$`)
	// 1.234,56 with dot thousands groups; the comma is required
	groupedAmountRegex = regexp.MustCompile(`^-?[0-9]{1,3}(\.[0-9]{3}){1,4},[0-9]{1,2}$`)
)

// ParseAmount parses a user-typed amount, optionally prefixed with "R$".
// Accepted forms are "1234.56", "1234,56" and "1.234,56"; at most two
// fractional digits. Exponents and ambiguous input such as "1.234" are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))

	switch {
	case plainAmountRegex.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	case groupedAmountRegex.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, raw)
	}
	return d, nil
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
