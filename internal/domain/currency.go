package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency catalog prices are expressed in.
const BaseCurrency = "USD"

// Currency is a display currency with a fixed conversion rate from USD.
type Currency struct {
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.NewFromInt(1)},
	{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.92")},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.79")},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: decimal.RequireFromString("149.50")},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Rate: decimal.RequireFromString("1.35")},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("1.52")},
	{Code: "BDT", Symbol: "৳", Name: "Bangladeshi Taka", Rate: decimal.NewFromInt(110)},
}

var baseCurrency = currencies[0]

// Currencies returns the supported display currencies.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// LookupCurrency finds a currency by its ISO code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range currencies {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}
