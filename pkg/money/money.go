// Package money formatea importes para documentos y correos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format devuelve el importe como "$1,234.56", redondeado a centavos.
func Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	units := amount.Truncate(0)
	cents := amount.Sub(units).Shift(2).Round(0).IntPart()
	whole := units.IntPart()
	if cents == 100 {
		whole++
		cents = 0
	}
	return printer.Sprintf("%s$%d.%02d", sign, whole, cents)
}
