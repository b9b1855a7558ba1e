// Package currency converts between the integer-cent representation the
// API uses and the decimal strings people read and type. Money is never
// a float anywhere in this module.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var oneHundred = decimal.NewFromInt(100)

// DollarsToCents parses a decimal amount like "12.99" into cents. Inputs
// with more than two fraction digits are rounded to the nearest cent,
// half away from zero: "12.994" gives 1299 and "12.995" gives 1300.
func DollarsToCents(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as an amount: %w", amount, err)
	}

	// decimal.Round rounds half away from zero
	return d.Mul(oneHundred).Round(0).IntPart(), nil
}

// CentsToDollars renders cents as a plain decimal string with exactly
// two fraction digits, the inverse of DollarsToCents.
func CentsToDollars(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Format renders cents for display with a dollar sign and thousands
// separators. Negative amounts carry the minus before the symbol,
// -1299 becomes "-$12.99".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return printer.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// UsagePercent reports how much of a monthly envelope limit the spent
// amount consumes, in percent rounded to one decimal. Amounts over the
// limit yield values above 100. A zero or negative limit means the
// envelope has no ceiling and the usage is reported as 0.
func UsagePercent(spentCents, limitCents int64) float64 {
	if limitCents <= 0 {
		return 0
	}

	percent := decimal.NewFromInt(spentCents).
		Div(decimal.NewFromInt(limitCents)).
		Mul(oneHundred).
		Round(1)

	f, _ := percent.Float64()
	return f
}
