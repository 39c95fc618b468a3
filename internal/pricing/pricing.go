// Package pricing derives the order summary shown in the cart and at checkout.
// Both places call the same functions so the two totals always agree.
package pricing

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(999)
	FlatShippingFee       = decimal.NewFromInt(99)
)

type Summary struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"free_shipping"`
}

// ShippingCost is free at or above the threshold and a flat fee below it.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

func GrandTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(ShippingCost(subtotal))
}

func Summarize(subtotal decimal.Decimal) Summary {
	shipping := ShippingCost(subtotal)
	return Summary{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        subtotal.Add(shipping),
		FreeShipping: shipping.IsZero(),
	}
}
