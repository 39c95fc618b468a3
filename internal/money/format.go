// Package money formats amounts and dates the way the storefront shows them
// (Indian rupees, whole units, lakh/crore digit grouping).
package money

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const CurrencySymbol = "₹"

// FormatPrice renders an amount as whole rupees, e.g. ₹1,23,456.
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	return sign + CurrencySymbol + groupIndian(rounded.String())
}

// FormatAmount renders an amount in rupees keeping up to three fraction
// digits without trailing zeros, e.g. ₹1,299.5.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(3)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole, frac, _ := strings.Cut(rounded.String(), ".")
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		frac = "." + frac
	}
	return sign + CurrencySymbol + groupIndian(whole) + frac
}

// groupIndian groups the last three digits, then every two digits before them.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, ",") + "," + tail
}

// FormatDate renders a date as day, short month and year, e.g. 18 Oct 2026.
func FormatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}
