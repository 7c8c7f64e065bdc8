package holdings

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Holding is one stock position as reported by the portfolio backend.
//
// Arithmetic fields are trusted as received: Investment, PresentValue and
// GainLoss are never re-derived from prices and quantity.
type Holding struct {
	Stock            string  `json:"stock" msgpack:"stock"`
	Symbol           string  `json:"symbol" msgpack:"symbol"`
	ExchangeCode     string  `json:"exchangeCode" msgpack:"exchangeCode"`
	Sector           string  `json:"sector" msgpack:"sector"` // empty when the backend has none
	PurchasePrice    float64 `json:"purchasePrice" msgpack:"purchasePrice"`
	Qty              float64 `json:"qty" msgpack:"qty"` // fractional for some instruments
	Investment       float64 `json:"investment" msgpack:"investment"`
	CMP              float64 `json:"cmp" msgpack:"cmp"` // current market price
	PresentValue     float64 `json:"presentValue" msgpack:"presentValue"`
	GainLoss         float64 `json:"gainLoss" msgpack:"gainLoss"`
	PortfolioPercent float64 `json:"portfolioPercent" msgpack:"portfolioPercent"`
	PERatio          Figure  `json:"peRatio" msgpack:"peRatio"`
	LatestEarnings   Figure  `json:"latestEarnings" msgpack:"latestEarnings"`
}

// Figure is a loosely typed metric: the backend sends a number, a string
// (usually an NA token) or null.
type Figure struct {
	// Value is nil, a float64 or a string.
	Value any `msgpack:"v"`
}

// Number returns a Figure holding v.
func Number(v float64) Figure { return Figure{Value: v} }

// Text returns a Figure holding s.
func Text(s string) Figure { return Figure{Value: s} }

// Float returns the numeric value of f, if it has one.
func (f Figure) Float() (float64, bool) {
	v, ok := f.Value.(float64)
	return v, ok
}

// String returns the display form of f, see ToDisplay.
func (f Figure) String() string { return ToDisplay(f.Value) }

// Format renders a numeric f with nf and at most digits fraction digits, and
// any other f like String.
func (f Figure) Format(nf NumberFormat, digits int) string {
	if v, ok := f.Float(); ok {
		return nf.Format(v, digits)
	}
	return f.String()
}

func (f Figure) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

func (f *Figure) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil, float64, string:
		f.Value = v
	case bool:
		f.Value = strconv.FormatBool(v)
	default:
		return fmt.Errorf("figure must be a number, a string or null, got %s", data)
	}
	return nil
}
