package holdings

import (
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestCategoryWeight(t *testing.T) {
	tests := []struct {
		group, total float64
		want         float64
	}{
		{0, 0, 0},
		{1200, 0, 0},
		{-5, 0, 0},
		{10, -100, 0},
		{1200, 1200, 100},
		{300, 1200, 25},
		{0, 1200, 0},
	}
	for _, tt := range tests {
		got := CategoryWeight(tt.group, tt.total)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("CategoryWeight(%v, %v) = %v, want a finite number", tt.group, tt.total, got)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("CategoryWeight(%v, %v) = %v, want %v", tt.group, tt.total, got, tt.want)
		}
	}
}

func TestTotalPresentValue(t *testing.T) {
	if got := TotalPresentValue(nil); got != 0 {
		t.Errorf("TotalPresentValue(nil) = %v, want 0", got)
	}
	holdings := []Holding{H("a", "", 1, 10), H("b", "", 1, 20.5), H("c", "", 1, -0.5)}
	if got := TotalPresentValue(holdings); got != 30 {
		t.Errorf("TotalPresentValue() = %v, want 30", got)
	}
}

func TestPercent_Format(t *testing.T) {
	en := NewNumberFormat(language.English)
	tests := []struct {
		p    Percent
		want string
	}{
		{81.27, "81.3%"},
		{100, "100%"},
		{0, "0%"},
		{Percent(math.NaN()), "-"},
	}
	for _, tt := range tests {
		if got := tt.p.Format(en); got != tt.want {
			t.Errorf("Percent(%v).Format() = %q, want %q", float64(tt.p), got, tt.want)
		}
	}
	if got := Percent(1234.56).Format(NewNumberFormat(language.German)); got != "1.234,6%" {
		t.Errorf("Percent(1234.56).Format(de) = %q, want 1.234,6%%", got)
	}
}
