package solver

import (
	"math"
	"testing"

	"plotkit/core"
)

func TestNicest(t *testing.T) {
	cases := []struct {
		name      string
		value     float64
		precision int
		want      string
	}{
		{"exact zero", 0, 2, "0"},
		{"tiny value snaps to zero", 1e-8, 2, "0"},
		{"integer", 2, 2, "2"},
		{"near integer snaps", 2.0004, 2, "2"},
		{"negative integer", -3, 2, "-3"},
		{"half pi", math.Pi / 2, 2, "π/2"},
		{"pi itself", math.Pi, 2, "π"},
		{"negative sixth of pi", -math.Pi / 6, 2, "-π/6"},
		{"three quarters of pi", 3 * math.Pi / 4, 2, "3π/4"},
		{"one third", 1.0 / 3.0, 4, "1/3"},
		{"negative two fifths", -2.0 / 5.0, 4, "-2/5"},
		{"plain decimal", 0.1234, 2, "0.12"},
		{"small rational beats decimal", 1.5, 4, "3/2"},
		{"trailing zeros trimmed", 0.123, 6, "0.123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Nicest(tc.value, tc.precision)
			if got != tc.want {
				t.Errorf("Nicest(%v, %d) = %q, want %q", tc.value, tc.precision, got, tc.want)
			}
		})
	}
}

func TestPointLabel(t *testing.T) {
	if got := PointLabel(core.Zero, 2, 0, 2); got != "P(2, 0)" {
		t.Errorf("Expected zero label 'P(2, 0)', got %q", got)
	}
	if got := PointLabel(core.Maximum, 0, 4, 2); got != "Max(0, 4)" {
		t.Errorf("Expected maximum label 'Max(0, 4)', got %q", got)
	}
	if got := PointLabel(core.Minimum, 1.5, -2.25, 2); got != "Min(1.5, -2.25)" {
		t.Errorf("Expected minimum label 'Min(1.5, -2.25)', got %q", got)
	}
}

func TestSubstituteParams(t *testing.T) {
	params := []core.Parameter{
		{Name: "a", Value: 2},
		{Name: "b", Value: -0.5},
	}
	got := SubstituteParams("a*x^2 + b*x + ab", params)
	// Whole-word matches only: 'ab' is a different identifier.
	want := "(2)*x^2 + (-0.5)*x + ab"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := SubstituteParams("x + 1", nil); got != "x + 1" {
		t.Errorf("Expected pass-through without params, got %q", got)
	}
}
