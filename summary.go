package holdings

import "gonum.org/v1/gonum/floats"

// TotalPresentValue returns the present value of the whole portfolio, summed
// over the flat list rather than over groups.
func TotalPresentValue(holdings []Holding) float64 {
	values := make([]float64, len(holdings))
	for i, h := range holdings {
		values[i] = h.PresentValue
	}
	return floats.Sum(values)
}

// CategoryWeight returns a group's share of the portfolio present value, in
// percent. An empty or worthless portfolio weighs 0, never NaN or Inf.
func CategoryWeight(groupPresentValue, totalPresentValue float64) float64 {
	if totalPresentValue > 0 {
		return groupPresentValue / totalPresentValue * 100
	}
	return 0
}

// Percent is a percentage value.
type Percent float64

// Format renders p with at most one fraction digit followed by "%".
func (p Percent) Format(f NumberFormat) string {
	s := f.Format(float64(p), 1)
	if s == Placeholder {
		return s
	}
	return s + "%"
}
