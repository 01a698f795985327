package util

import (
	"testing"
)

func TestNearlyEqual(t *testing.T) {
	testCases := []struct {
		a        float64
		b        float64
		expected bool
	}{
		{0, 0, true},
		{10, 10, true},
		{0.1 + 0.2, 0.3, true},
		{10, 10.0000001, true},
		{10, 10.01, false},
		{20, 10, false},
	}

	for i, tc := range testCases {
		res := NearlyEqual(tc.a, tc.b)
		if res != tc.expected {
			t.Errorf("Test case %d a: %v, b: %v, expected: %v, actual: %v", i, tc.a, tc.b, tc.expected, res)
		}
	}
}

func TestGreaterAndLess(t *testing.T) {
	testCases := []struct {
		a       float64
		b       float64
		greater bool
		less    bool
		geq     bool
	}{
		{20, 10, true, false, true},
		{10, 20, false, true, false},
		{10, 10, false, false, true},
		{0.1 + 0.2, 0.3, false, false, true},
	}

	for i, tc := range testCases {
		if res := Greater(tc.a, tc.b); res != tc.greater {
			t.Errorf("Test case %d Greater(%v, %v) expected: %v, actual: %v", i, tc.a, tc.b, tc.greater, res)
		}
		if res := Less(tc.a, tc.b); res != tc.less {
			t.Errorf("Test case %d Less(%v, %v) expected: %v, actual: %v", i, tc.a, tc.b, tc.less, res)
		}
		if res := GreaterOrNearlyEqual(tc.a, tc.b); res != tc.geq {
			t.Errorf("Test case %d GreaterOrNearlyEqual(%v, %v) expected: %v, actual: %v", i, tc.a, tc.b, tc.geq, res)
		}
	}
}

func TestSumChips(t *testing.T) {
	testCases := []struct {
		in       []float64
		expected float64
	}{
		{nil, 0},
		{[]float64{10, 20}, 30},
		{[]float64{0.1, 0.2}, 0.3},
		{[]float64{90, 80, 100, 30}, 300},
	}

	for i, tc := range testCases {
		res := SumChips(tc.in...)
		if res != tc.expected {
			t.Errorf("Test case %d in: %v, expected: %v, actual: %v", i, tc.in, tc.expected, res)
		}
	}
}
