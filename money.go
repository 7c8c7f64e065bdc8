package holdings

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney formats v as an amount of the ISO 4217 currency code, rounded to
// the currency minor unit, e.g. "₹1,200.00" for INR. Unknown currencies fall
// back to FormatNumber followed by the code.
func FormatMoney(v float64, code string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		s := FormatNumber(v, 2)
		if code != "" {
			s += " " + code
		}
		return s
	}
	// amounts are handled in minor units, like the go-money formatter wants.
	minor := decimal.NewFromFloat(v).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// SignedMoney is FormatMoney with an explicit "+" for gains. Amounts that
// round to zero render as an unsigned zero.
func SignedMoney(v float64, code string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	if decimal.NewFromFloat(v).Round(2).IsZero() {
		return FormatMoney(0, code)
	}
	s := FormatMoney(v, code)
	if v > 0 {
		return "+" + s
	}
	return s
}
