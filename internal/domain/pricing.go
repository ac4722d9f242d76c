package domain

import "github.com/shopspring/decimal"

// Pricing rules applied by the cart and checkout summaries.
var (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(50)
	// FlatShippingFee is charged when the subtotal does not exceed the threshold.
	FlatShippingFee = decimal.NewFromInt(10)
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.1")
)

// OrderSummary is the derived pricing breakdown of a cart.
type OrderSummary struct {
	Currency              string          `json:"currency"`
	ItemCount             int             `json:"itemCount"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
	FreeShipping          bool            `json:"freeShipping"`
	FreeShippingRemaining decimal.Decimal `json:"freeShippingRemaining"`
	FreeShippingProgress  decimal.Decimal `json:"freeShippingProgress"`
}

// Summarize computes the order summary of a cart in the base currency.
// An empty cart has no shipping charge.
func Summarize(c Cart) OrderSummary {
	return SummarizeIn(c, baseCurrency)
}

// SummarizeIn computes the order summary of a cart priced in cur. Shipping
// rules apply to the base-currency subtotal; each money field is converted
// before rounding, and Total is the sum of the rounded parts.
func SummarizeIn(c Cart, cur Currency) OrderSummary {
	subtotal := c.TotalPrice()

	shipping := FlatShippingFee
	if len(c.Items) == 0 || subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	remaining := decimal.Zero
	if subtotal.LessThan(FreeShippingThreshold) {
		remaining = FreeShippingThreshold.Sub(subtotal)
	}
	progress := decimal.Min(subtotal.Div(FreeShippingThreshold).Mul(hundred), hundred)

	convSubtotal := subtotal.Mul(cur.Rate)
	out := OrderSummary{
		Currency:              cur.Code,
		ItemCount:             c.TotalItems(),
		Subtotal:              convSubtotal.Round(2),
		Shipping:              shipping.Mul(cur.Rate).Round(2),
		Tax:                   convSubtotal.Mul(TaxRate).Round(2),
		FreeShipping:          shipping.IsZero() && len(c.Items) > 0,
		FreeShippingRemaining: remaining.Mul(cur.Rate).Round(2),
		FreeShippingProgress:  progress.Round(2),
	}
	out.Total = out.Subtotal.Add(out.Shipping).Add(out.Tax)
	return out
}
