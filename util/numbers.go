package util

import (
	"math"
)

// Chip amounts are float64 and compared with a tolerance so that
// fractional blinds do not leave a street open on rounding noise.
const epsilon = 0.000001

func NearlyEqual(a float64, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < epsilon
}

func Greater(a float64, b float64) bool {
	return a > b && !NearlyEqual(a, b)
}

func Less(a float64, b float64) bool {
	return a < b && !NearlyEqual(a, b)
}

func GreaterOrNearlyEqual(a float64, b float64) bool {
	if a >= b {
		return true
	}
	return NearlyEqual(a, b)
}

// RoundChips rounds to cents.
func RoundChips(num float64) float64 {
	return math.Round(num*100) / 100
}

func SumChips(amounts ...float64) float64 {
	total := 0.0
	for _, a := range amounts {
		total += a
	}
	return RoundChips(total)
}
