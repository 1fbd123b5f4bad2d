package patterns

import (
	"math"
	"testing"
)

func TestBreakoutAboveRecentHigh(t *testing.T) {
	cases := []struct {
		name     string
		prices   []float64
		lookback int
		want     bool
	}{
		{"not enough data", []float64{100, 101}, 5, false},
		{"zero lookback", []float64{100, 101}, 0, false},
		{"equal to recent high", []float64{100, 102, 103, 103}, 3, false},
		{"strictly above", []float64{100, 102, 103, 104}, 3, true},
		{"within epsilon", []float64{98, 99, 100, 100.00005}, 2, false},
		{"older high ignored", []float64{200, 90, 95, 100, 101}, 3, true},
		{"last excluded from window", []float64{90, 95, 100, 105}, 2, true},
	}
	for _, tc := range cases {
		if got := BreakoutAboveRecentHigh(tc.prices, tc.lookback); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBreakdownBelowRecentLow(t *testing.T) {
	cases := []struct {
		name     string
		prices   []float64
		lookback int
		want     bool
	}{
		{"not enough data", []float64{100, 99}, 5, false},
		{"equal to recent low", []float64{100, 98, 97, 97}, 3, false},
		{"strictly below", []float64{100, 98, 97, 96}, 3, true},
		{"slightly above", []float64{100, 99, 98, 98.000001}, 3, false},
		{"older low ignored", []float64{50, 60, 55, 54, 53}, 3, true},
		{"last excluded from window", []float64{10, 9, 8, 7, 6}, 2, true},
	}
	for _, tc := range cases {
		if got := BreakdownBelowRecentLow(tc.prices, tc.lookback); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBreakoutWindowPosition(t *testing.T) {
	// extreme inside the reference window blocks the breakout
	inside := []float64{100, 101, 120, 102, 110}
	if BreakoutAboveRecentHigh(inside, 3) {
		t.Fatalf("expected no breakout while 120 is in the window")
	}
	// same values with the extreme shifted out of the window
	outside := []float64{120, 101, 100, 102, 110}
	if !BreakoutAboveRecentHigh(outside, 3) {
		t.Fatalf("expected breakout once 120 leaves the window")
	}

	insideLow := []float64{100, 99, 70, 98, 90}
	if BreakdownBelowRecentLow(insideLow, 3) {
		t.Fatalf("expected no breakdown while 70 is in the window")
	}
	outsideLow := []float64{70, 99, 100, 98, 90}
	if !BreakdownBelowRecentLow(outsideLow, 3) {
		t.Fatalf("expected breakdown once 70 leaves the window")
	}
}

func TestPullbackAndBounce(t *testing.T) {
	// runtime values so the boundary rounds the way PullbackAndBounce computes it
	var ma, tol = 100.0, 0.003
	cases := []struct {
		name   string
		prices []float64
		want   bool
	}{
		{"empty", nil, false},
		{"two prices", []float64{105, 100}, false},
		{"valid", []float64{105, 100, 103}, true},
		{"p2 not above", []float64{100, 99, 101}, false},
		{"p1 not below p2", []float64{105, 105, 106}, false},
		{"p1 too far above", []float64{105, 101, 103}, false},
		{"p1 on boundary", []float64{105, ma * (1 + tol), 103}, true},
		{"p1 just past boundary", []float64{105, math.Nextafter(ma*(1+tol), math.Inf(1)), 103}, false},
		{"p0 not above ma", []float64{105, 99, 99.5}, false},
		{"p0 not above p1", []float64{105, 100.2, 100.1}, false},
		{"longer history", []float64{1, 2, 3, 105, 100, 103}, true},
	}
	for _, tc := range cases {
		if got := PullbackAndBounce(tc.prices, ma, tol); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPullbackAndReject(t *testing.T) {
	var ma, tol = 100.0, 0.003
	cases := []struct {
		name   string
		prices []float64
		want   bool
	}{
		{"two prices", []float64{95, 100}, false},
		{"valid", []float64{95, 100, 98}, true},
		{"p2 not below", []float64{100, 101, 99}, false},
		{"p1 not above p2", []float64{95, 95, 94}, false},
		{"p1 too far below", []float64{95, 99, 98}, false},
		{"p1 on boundary", []float64{95, ma * (1 - tol), 98}, true},
		{"p1 just past boundary", []float64{95, math.Nextafter(ma*(1-tol), math.Inf(-1)), 98}, false},
		{"p0 not below ma", []float64{95, 101, 100.5}, false},
		{"p0 not below p1", []float64{95, 99.8, 99.9}, false},
		{"longer history", []float64{1, 2, 3, 95, 100, 98}, true},
	}
	for _, tc := range cases {
		if got := PullbackAndReject(tc.prices, ma, tol); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
