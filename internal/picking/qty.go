package picking

import (
	"math"
	"strconv"
	"strings"
)

const (
	// epsilon guards "is this effectively zero / integral" checks.
	epsilon = 1e-9

	// doneTolerance absorbs floating-point accumulation from repeated
	// stepper increments when comparing collected against ordered.
	doneTolerance = 1e-6

	// maxFracDigits bounds both display precision and step inference.
	maxFracDigits = 3
)

// FormatQty renders a quantity for display. Integral values render without
// decimals, everything else with at most three fractional digits and
// trailing zeros trimmed. Non-finite input renders as "0".
func FormatQty(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if math.Abs(v) >= 1e15 {
		// Past int64-safe territory; these are integral floats anyway.
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if math.Abs(v-math.Round(v)) < epsilon {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	s := strconv.FormatFloat(v, 'f', maxFracDigits, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// InferStep derives the stepper increment from the ordered quantity: 1 for
// integral quantities, otherwise one unit of the quantity's least
// significant fractional digit (2.5 steps by 0.1, 1.25 by 0.01). The
// stepper therefore moves in the granularity the order was specified in.
func InferStep(qtyOrdered float64) float64 {
	if math.IsNaN(qtyOrdered) || math.IsInf(qtyOrdered, 0) {
		return 1
	}
	if math.Abs(qtyOrdered-math.Round(qtyOrdered)) < epsilon {
		return 1
	}
	return math.Pow(10, -float64(fracDigits(qtyOrdered)))
}

// ClampRound clamps v into [0, max] and rounds it to the decimal precision
// implied by step, normalizing negative zero. It is idempotent.
func ClampRound(v, max, step float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < 0 {
		v = 0
	}
	if v > max {
		v = max
	}
	pow := math.Pow(10, float64(stepDigits(step)))
	r := math.Round(v*pow) / pow
	if r == 0 {
		return 0
	}
	return r
}

// fracDigits counts the significant fractional digits of v, capped at
// maxFracDigits.
func fracDigits(v float64) int {
	for d := 1; d < maxFracDigits; d++ {
		pow := math.Pow(10, float64(d))
		scaled := v * pow
		if math.Abs(scaled-math.Round(scaled)) < epsilon*pow {
			return d
		}
	}
	return maxFracDigits
}

// stepDigits maps a step to the number of fractional digits it implies.
func stepDigits(step float64) int {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return 0
	}
	if math.Abs(step-math.Round(step)) < epsilon {
		return 0
	}
	return fracDigits(step)
}
