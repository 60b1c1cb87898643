package printer

import (
	"math"
	"testing"
)

func TestFormatNumberNaN(t *testing.T) {
	if got, want := FormatNumber(math.NaN(), StyleC), "nan"; got != want {
		t.Errorf("FormatNumber(NaN, StyleC) = %q, want %q", got, want)
	}
	if got, want := FormatNumber(math.NaN(), StyleJSON), "null"; got != want {
		t.Errorf("FormatNumber(NaN, StyleJSON) = %q, want %q", got, want)
	}
}

func TestFormatNumberIntegers(t *testing.T) {
	cases := []struct {
		n    float64
		want string
	}{
		{42, "42"},
		{1000, "1000"},
		{0, "0"},
		{-7, "-7"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.n, StyleC); got != c.want {
			t.Errorf("FormatNumber(%v, StyleC) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatNumberLargeIntegerFallsBackToExponential(t *testing.T) {
	got := FormatNumber(1e20, StyleC)
	want := "1e20"
	if got != want {
		t.Errorf("FormatNumber(1e20, StyleC) = %q, want %q", got, want)
	}
}

func TestFormatNumberSmallFraction(t *testing.T) {
	if got, want := FormatNumber(0.0001, StyleC), "0.0001"; got != want {
		t.Errorf("FormatNumber(0.0001) = %q, want %q", got, want)
	}
	if got, want := FormatNumber(0.00001, StyleC), "1e-5"; got != want {
		t.Errorf("FormatNumber(0.00001) = %q, want %q", got, want)
	}
}

func TestFormatNumberNormalDecimal(t *testing.T) {
	if got, want := FormatNumber(3.14159, StyleC), "3.14159"; got != want {
		t.Errorf("FormatNumber(3.14159) = %q, want %q", got, want)
	}
}

func TestFormatNumberExprStyleAppendsDotZero(t *testing.T) {
	if got, want := FormatNumber(42, StyleExpr), "42.0"; got != want {
		t.Errorf("FormatNumber(42, StyleExpr) = %q, want %q", got, want)
	}
	if got, want := FormatNumber(42, StyleCurv), "42.0"; got != want {
		t.Errorf("FormatNumber(42, StyleCurv) = %q, want %q", got, want)
	}
}

func TestFormatNumberInfNanPerStyle(t *testing.T) {
	posInf := float64(1)
	posInf = posInf / 0
	cases := []struct {
		style Style
		inf   string
	}{
		{StyleC, "inf"},
		{StyleJSON, "1e9999"},
		{StyleXML, "INF"},
		{StyleExpr, "1.0/0.0"},
	}
	for _, c := range cases {
		if got := FormatNumber(posInf, c.style); got != c.inf {
			t.Errorf("FormatNumber(+Inf, %v) = %q, want %q", c.style, got, c.inf)
		}
		if got := FormatNumber(-posInf, c.style); got != "-"+c.inf {
			t.Errorf("FormatNumber(-Inf, %v) = %q, want %q", c.style, got, "-"+c.inf)
		}
	}
}
