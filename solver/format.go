package solver

import (
	"math"
	"strconv"
	"strings"

	"plotkit/core"
)

// Formatting tolerances for the "nicest representation" rule. A value is
// preferentially rendered as a rational multiple of pi, then as a small
// exact rational, then as a decimal at the requested precision.
const (
	zeroSnap    = 1e-10
	integerSnap = 1e-3
	piTolerance = 1e-3
)

// piDenominators is the fixed denominator set tried for pi fractions.
var piDenominators = []int{1, 2, 3, 4, 5, 6, 8, 10, 12, 24}

// Nicest renders v in its nicest exact form, falling back to a decimal
// rounded to the given number of places.
func Nicest(v float64, precision int) string {
	if math.Abs(v) < zeroSnap {
		return "0"
	}
	if math.Abs(v-math.Round(v)) < integerSnap {
		return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}
	if s, ok := piFraction(v); ok {
		return s
	}
	if s, ok := smallRational(v); ok {
		return s
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// piFraction tries to render v as p·π/q over the fixed denominator set.
func piFraction(v float64) (string, bool) {
	for _, q := range piDenominators {
		p := math.Round(v * float64(q) / math.Pi)
		if p == 0 {
			continue
		}
		if math.Abs(v-p*math.Pi/float64(q)) < piTolerance {
			return formatPiFraction(int(p), q), true
		}
	}
	return "", false
}

func formatPiFraction(p, q int) string {
	g := gcd(abs(p), q)
	p, q = p/g, q/g
	var sb strings.Builder
	if p < 0 {
		sb.WriteString("-")
		p = -p
	}
	if p != 1 {
		sb.WriteString(strconv.Itoa(p))
	}
	sb.WriteString("π")
	if q != 1 {
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(q))
	}
	return sb.String()
}

// smallRational tries to render v as an exact fraction with denominator
// below 20 and numerator magnitude below 1000.
func smallRational(v float64) (string, bool) {
	for q := 2; q < 20; q++ {
		p := v * float64(q)
		r := math.Round(p)
		if math.Abs(p-r) > 1e-9 || math.Abs(r) >= 1000 || r == 0 {
			continue
		}
		n := int(r)
		g := gcd(abs(n), q)
		if q/g == 1 {
			continue
		}
		return strconv.Itoa(n/g) + "/" + strconv.Itoa(q/g), true
	}
	return "", false
}

// PointLabel builds the display label for a solver result: "P(x, 0)" for
// zeros, "Max(x, y)"/"Min(x, y)" for extrema.
func PointLabel(kind core.CriticalKind, x, y float64, precision int) string {
	switch kind {
	case core.Maximum:
		return "Max(" + Nicest(x, precision) + ", " + Nicest(y, precision) + ")"
	case core.Minimum:
		return "Min(" + Nicest(x, precision) + ", " + Nicest(y, precision) + ")"
	default:
		return "P(" + Nicest(x, precision) + ", 0)"
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
