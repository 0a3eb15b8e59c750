// Package money formats amounts as Brazilian reais for the view layer.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount as localized currency, e.g. "R$ 1.234,56".
// The zero value (including amounts the API omitted or sent as null)
// renders as "R$ 0,00".
func FormatBRL(v decimal.Decimal) string {
	f, _ := v.Float64()
	return printer.Sprintf("R$ %v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
