package ui

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Totals always show two decimals, whatever the currency's minor unit.
const moneyPlaces = 2

// Money renders amount in the currency's own format, e.g. $1,234.50.
// Unknown codes fall back to "<amount> <code>".
func Money(amount float64, code string) string {
	d := decimal.NewFromFloat(amount).Round(moneyPlaces)
	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(moneyPlaces) + " " + code
	}
	sep := cur.Decimal
	if sep == "" {
		sep = "."
	}
	f := money.NewFormatter(moneyPlaces, sep, cur.Thousand, cur.Grapheme, cur.Template)

	minor := d.Shift(moneyPlaces).BigInt()
	if minor.IsInt64() {
		return f.Format(minor.Int64())
	}
	return formatLarge(f, d)
}

// formatLarge lays out amounts past int64 minor units the way
// Formatter.Format does.
func formatLarge(f *money.Formatter, d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(moneyPlaces), ".")
	if f.Thousand != "" {
		for i := len(whole) - 3; i > 0; i -= 3 {
			whole = whole[:i] + f.Thousand + whole[i:]
		}
	}
	s := strings.Replace(f.Template, "1", whole+f.Decimal+frac, 1)
	s = strings.Replace(s, "$", f.Grapheme, 1)
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}
