package holdings

import (
	"math"
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		v    float64
		code string
		want string
	}{
		{1200, "USD", "$1,200.00"},
		{1234567.891, "USD", "$1,234,567.89"},
		{0.5, "usd", "$0.50"},
		{1200, "INR", "₹1,200.00"},
		{math.NaN(), "USD", "-"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.v, tt.code); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.v, tt.code, got, tt.want)
		}
	}
}

func TestFormatMoney_UnknownCurrency(t *testing.T) {
	got := FormatMoney(12, "XYZ1")
	if !strings.HasSuffix(got, " XYZ1") {
		t.Errorf("FormatMoney(12, XYZ1) = %q, want a number followed by the code", got)
	}
}

func TestSignedMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{200, "+$200.00"},
		{0, "$0.00"},
		{0.001, "$0.00"},
		{-0.004, "$0.00"},
		{math.Inf(1), "-"},
	}
	for _, tt := range tests {
		if got := SignedMoney(tt.v, "USD"); got != tt.want {
			t.Errorf("SignedMoney(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
	if got := SignedMoney(-200, "USD"); !strings.Contains(got, "200.00") || strings.HasPrefix(got, "+") {
		t.Errorf("SignedMoney(-200) = %q, want a negative amount", got)
	}
}
