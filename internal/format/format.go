// Package format renders amounts the way the budget workbook shows them.
package format

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "£"

var printer = message.NewPrinter(language.BritishEnglish)

// Currency renders whole pounds with digit grouping. Negative amounts are
// bracketed: -1234.5 renders as "(£1,235)". NaN and infinities render as "-".
func Currency(v float64) string {
	if !finite(v) {
		return "-"
	}
	d := decimal.NewFromFloat(v).Round(0)
	if d.IsZero() {
		return currencySymbol + "0"
	}
	s := currencySymbol + printer.Sprintf("%d", d.Abs().IntPart())
	if d.IsNegative() {
		return "(" + s + ")"
	}
	return s
}

// Amount renders v to two decimals with digit grouping, e.g. "-1,234.50".
func Amount(v float64) string {
	if !finite(v) {
		return "-"
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsZero() {
		return "0.00"
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	whole := d.Abs().Truncate(0)
	cents := d.Abs().Sub(whole).Shift(2).IntPart()
	return sign + printer.Sprintf("%d", whole.IntPart()) + "." + twoDigits(cents)
}

// Percent renders a value already expressed in percent, e.g. 12.34 as "12.3%".
func Percent(pct float64) string {
	if !finite(pct) {
		return "-"
	}
	d := decimal.NewFromFloat(pct).Round(1)
	if d.IsZero() {
		d = decimal.Zero
	}
	return d.StringFixed(1) + "%"
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + decimal.NewFromInt(n).String()
	}
	return decimal.NewFromInt(n).String()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
